package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autocitypro/import-service/internal/models"
)

func TestPropose_SynonymLookup(t *testing.T) {
	headers := []string{"Product Name", "QTY", "Cost Price", "Make", "Mystery Column"}

	cm := Propose(headers)

	assert.Equal(t, models.FieldName, cm["Product Name"])
	assert.Equal(t, models.FieldCurrentStock, cm["QTY"], "lookup is case-insensitive")
	assert.Equal(t, models.FieldCostPrice, cm["Cost Price"])
	assert.Equal(t, models.FieldCarMake, cm["Make"])
	assert.Equal(t, models.FieldUnmapped, cm["Mystery Column"])
}

func TestPropose_StockSynonyms(t *testing.T) {
	for _, h := range []string{"qty", "Quantity", "stock", "Current Stock", "On Hand"} {
		cm := Propose([]string{h})
		assert.Equal(t, models.FieldCurrentStock, cm[h], h)
	}
}

func TestApply_Overrides(t *testing.T) {
	headers := []string{"A", "B"}
	cm := Propose(headers)

	out, err := Apply(cm, headers, map[string]models.Field{
		"A": models.FieldName,
		"B": models.FieldUnmapped,
	})
	require.NoError(t, err)
	assert.Equal(t, models.FieldName, out["A"])
	assert.Equal(t, models.FieldUnmapped, out["B"])
	// Input map is not mutated.
	assert.Equal(t, models.FieldUnmapped, cm["A"])
}

func TestApply_RejectsUnknownHeaderAndField(t *testing.T) {
	headers := []string{"A"}
	cm := Propose(headers)

	_, err := Apply(cm, headers, map[string]models.Field{"Nope": models.FieldName})
	assert.Error(t, err)

	_, err = Apply(cm, headers, map[string]models.Field{"A": models.Field("bogus")})
	assert.Error(t, err)
}

func TestApply_DuplicateTargetsAllowed(t *testing.T) {
	headers := []string{"First", "Second"}
	cm := Propose(headers)

	out, err := Apply(cm, headers, map[string]models.Field{
		"First":  models.FieldName,
		"Second": models.FieldName,
	})
	require.NoError(t, err)

	// Extraction consults the earliest header in file order.
	h, ok := out.HeaderFor(models.FieldName, headers)
	require.True(t, ok)
	assert.Equal(t, "First", h)
}

func TestValidate_NameGate(t *testing.T) {
	headers := []string{"SKU", "Price"}
	cm := Propose(headers)
	assert.ErrorIs(t, Validate(cm, headers), ErrNameNotMapped)

	cm["SKU"] = models.FieldName
	assert.NoError(t, Validate(cm, headers))
}
