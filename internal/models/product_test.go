package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestDraftFromRow_StandardProduct(t *testing.T) {
	row := &ImportRow{
		Name:         "Brake Pad",
		SKU:          "BRK-1",
		CostPrice:    floatPtr(24.5),
		SellingPrice: floatPtr(39.99),
	}

	draft := DraftFromRow(row, "cat-1", "AC-00001")
	_, ok := draft.(StandardProduct)
	require.True(t, ok)

	payload := draft.WirePayload()
	assert.Equal(t, "BRK-1", payload.SKU, "own SKU wins over the fallback")
	assert.Equal(t, "cat-1", payload.CategoryID)
	assert.False(t, payload.IsVehicle)
	assert.Empty(t, payload.CarMake)
	assert.Equal(t, 0.0, payload.CurrentStock, "absent numerics default to zero")
	assert.Equal(t, float64(DefaultMaxStock), payload.MaxStock)
}

func TestDraftFromRow_VehicleProduct(t *testing.T) {
	row := &ImportRow{
		Name:      "Tail Light",
		IsVehicle: true,
		CarMake:   "Toyota",
		CarModel:  "Corolla",
		YearFrom:  intPtr(2014),
		YearTo:    intPtr(2019),
	}

	draft := DraftFromRow(row, "", "AC-00002")
	_, ok := draft.(VehicleProduct)
	require.True(t, ok)

	payload := draft.WirePayload()
	assert.Equal(t, "AC-00002", payload.SKU, "fallback SKU fills a blank")
	assert.True(t, payload.IsVehicle)
	assert.Equal(t, "Toyota", payload.CarMake)
	require.NotNil(t, payload.YearFrom)
	assert.Equal(t, 2014, *payload.YearFrom)

	// Vehicle fields are omitted from a standard payload on the wire.
	standard := DraftFromRow(&ImportRow{Name: "Pad", SKU: "P-1"}, "", "").WirePayload()
	data, err := json.Marshal(standard)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "carMake")
	assert.NotContains(t, string(data), "yearFrom")
}
