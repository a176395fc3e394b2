package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autocitypro/import-service/internal/models"
)

var testHeaders = []string{
	"Name", "SKU", "Category", "Cost Price", "Selling Price", "Tax Rate",
	"Stock", "Is Vehicle", "Make", "Model", "Year From", "Year To",
}

func testMap() models.ColumnMap {
	return models.ColumnMap{
		"Name":          models.FieldName,
		"SKU":           models.FieldSKU,
		"Category":      models.FieldCategory,
		"Cost Price":    models.FieldCostPrice,
		"Selling Price": models.FieldSellingPrice,
		"Tax Rate":      models.FieldTaxRate,
		"Stock":         models.FieldCurrentStock,
		"Is Vehicle":    models.FieldIsVehicle,
		"Make":          models.FieldCarMake,
		"Model":         models.FieldCarModel,
		"Year From":     models.FieldYearFrom,
		"Year To":       models.FieldYearTo,
	}
}

func validRaw() map[string]string {
	return map[string]string{
		"Name":          "Brake Pad Set",
		"SKU":           "BRK-1",
		"Category":      "Brakes",
		"Cost Price":    "24.50",
		"Selling Price": "39.99",
		"Tax Rate":      "18",
		"Stock":         "4",
	}
}

func TestValidateRow_CleanRow(t *testing.T) {
	row := ValidateRow(validRaw(), testHeaders, testMap(), nil, 0, true)

	assert.Empty(t, row.Errors)
	assert.Empty(t, row.Warnings)
	assert.Equal(t, models.RowPending, row.Status)
	require.NotNil(t, row.CostPrice)
	assert.Equal(t, 24.50, *row.CostPrice)
	assert.False(t, row.IsVehicle)
}

func TestValidateRow_NameRequired(t *testing.T) {
	raw := validRaw()
	raw["Name"] = "   "

	for _, warnings := range []bool{true, false} {
		row := ValidateRow(raw, testHeaders, testMap(), nil, 0, warnings)
		assert.Contains(t, row.Errors, "Product name is required")
	}
}

func TestValidateRow_NegativeNumbers(t *testing.T) {
	raw := validRaw()
	raw["Cost Price"] = "-1"
	raw["Selling Price"] = "-0.5"
	raw["Stock"] = "-3"

	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, false)
	assert.Contains(t, row.Errors, "Cost price cannot be negative")
	assert.Contains(t, row.Errors, "Selling price cannot be negative")
	assert.Contains(t, row.Errors, "Current stock cannot be negative")
}

func TestValidateRow_TaxRateRange(t *testing.T) {
	raw := validRaw()
	raw["Tax Rate"] = "101"
	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, true)
	assert.Contains(t, row.Errors, "Tax rate must be between 0 and 100")

	raw["Tax Rate"] = "100"
	row = ValidateRow(raw, testHeaders, testMap(), nil, 0, true)
	assert.Empty(t, row.Errors)
}

func TestValidateRow_YearOrder(t *testing.T) {
	raw := validRaw()
	raw["Make"] = "Toyota"
	raw["Year From"] = "2019"
	raw["Year To"] = "2014"

	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, true)
	assert.Contains(t, row.Errors, "Year From cannot be greater than Year To")
}

func TestValidateRow_VehicleDerivation(t *testing.T) {
	// Make presence implies vehicle even with the flag unset.
	raw := validRaw()
	raw["Make"] = "Toyota"
	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, true)
	assert.True(t, row.IsVehicle)
	assert.Empty(t, row.Errors)

	// Flag set without a make is a hard error.
	raw = validRaw()
	raw["Is Vehicle"] = "yes"
	row = ValidateRow(raw, testHeaders, testMap(), nil, 0, true)
	assert.True(t, row.IsVehicle)
	assert.Contains(t, row.Errors, "Vehicle products require a car make")
}

func TestValidateRow_BooleanLiterals(t *testing.T) {
	for _, v := range []string{"true", "YES", "1", "y"} {
		raw := validRaw()
		raw["Is Vehicle"] = v
		raw["Make"] = "Honda"
		row := ValidateRow(raw, testHeaders, testMap(), nil, 0, false)
		assert.True(t, row.IsVehicle, v)
	}
	raw := validRaw()
	raw["Is Vehicle"] = "on"
	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, false)
	assert.False(t, row.IsVehicle)
}

func TestValidateRow_AbsenceDistinctFromZero(t *testing.T) {
	raw := validRaw()
	raw["Stock"] = "n/a"
	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, false)
	assert.Nil(t, row.CurrentStock, "non-numeric parses to nil, not zero")

	raw["Stock"] = "0"
	row = ValidateRow(raw, testHeaders, testMap(), nil, 0, false)
	require.NotNil(t, row.CurrentStock)
	assert.Equal(t, 0.0, *row.CurrentStock)
}

func TestValidateRow_CategoryResolution(t *testing.T) {
	categories := []models.Category{{ID: "cat-1", Name: "Brakes"}}

	raw := validRaw()
	raw["Category"] = "bRaKeS"
	row := ValidateRow(raw, testHeaders, testMap(), categories, 0, true)
	assert.Equal(t, "cat-1", row.CategoryID, "match is case-insensitive")

	raw["Category"] = "Suspension"
	row = ValidateRow(raw, testHeaders, testMap(), categories, 0, true)
	assert.Empty(t, row.CategoryID, "no match leaves the id unset for import-time creation")
	assert.Equal(t, "Suspension", row.CategoryName)
}

func TestValidateRow_Warnings(t *testing.T) {
	raw := validRaw()
	delete(raw, "Cost Price")
	delete(raw, "Stock")

	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, true)
	assert.Contains(t, row.Warnings, "Cost price is missing or zero - ledger value won't be tracked")
	assert.Contains(t, row.Warnings, "Current stock not provided - defaults to 0")
	assert.Empty(t, row.Errors, "warnings never block import")
}

func TestValidateRow_WarningsSuppressed(t *testing.T) {
	raw := validRaw()
	delete(raw, "Cost Price")
	delete(raw, "Stock")
	raw["Selling Price"] = "-2" // hard errors stay regardless of mode

	row := ValidateRow(raw, testHeaders, testMap(), nil, 0, false)
	assert.Empty(t, row.Warnings)
	assert.Contains(t, row.Errors, "Selling price cannot be negative")
}

func TestValidateRow_Idempotent(t *testing.T) {
	raw := validRaw()
	raw["Cost Price"] = "0"
	raw["Is Vehicle"] = "true"
	categories := []models.Category{{ID: "cat-1", Name: "Brakes"}}

	first := ValidateRow(raw, testHeaders, testMap(), categories, 3, true)
	second := ValidateRow(raw, testHeaders, testMap(), categories, 3, true)

	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first, second)
}

func TestValidateSheet_Stats(t *testing.T) {
	sheet := &models.Sheet{
		Headers: testHeaders,
		Rows: []map[string]string{
			validRaw(),
			{"Name": "", "SKU": "X-1"},
			validRaw(),
		},
	}

	rows := ValidateSheet(sheet, testMap(), nil, true)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].RowIndex)
	assert.Equal(t, 2, rows[2].RowIndex)

	stats := models.ComputeRowStats(rows)
	assert.Equal(t, 2, stats.Valid)
	assert.Equal(t, 1, stats.WithErrors)
}
