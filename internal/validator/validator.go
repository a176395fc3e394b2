package validator

import (
	"strconv"
	"strings"

	"github.com/autocitypro/import-service/internal/models"
)

// ValidateRow converts one raw parsed row into a typed candidate record,
// annotated with hard errors and, when enabled, soft warnings. It is pure:
// the same inputs always produce the same errors and warnings, and it
// performs no I/O. Category resolution here is a case-insensitive exact
// match against the known list; unresolved names are left for import-time
// auto-creation.
func ValidateRow(raw map[string]string, headers []string, cm models.ColumnMap, categories []models.Category, rowIndex int, warningsEnabled bool) *models.ImportRow {
	get := func(field models.Field) string {
		h, ok := cm.HeaderFor(field, headers)
		if !ok {
			return ""
		}
		return strings.TrimSpace(raw[h])
	}

	row := &models.ImportRow{
		RowIndex:     rowIndex,
		Name:         get(models.FieldName),
		Description:  get(models.FieldDescription),
		CategoryName: get(models.FieldCategory),
		SKU:          get(models.FieldSKU),
		Barcode:      get(models.FieldBarcode),
		PartNumber:   get(models.FieldPartNumber),
		Unit:         get(models.FieldUnit),
		CostPrice:    parseNumber(get(models.FieldCostPrice)),
		SellingPrice: parseNumber(get(models.FieldSellingPrice)),
		TaxRate:      parseNumber(get(models.FieldTaxRate)),
		CurrentStock: parseNumber(get(models.FieldCurrentStock)),
		MinStock:     parseNumber(get(models.FieldMinStock)),
		MaxStock:     parseNumber(get(models.FieldMaxStock)),
		CarMake:      get(models.FieldCarMake),
		CarModel:     get(models.FieldCarModel),
		Variant:      get(models.FieldVariant),
		YearFrom:     parseYear(get(models.FieldYearFrom)),
		YearTo:       parseYear(get(models.FieldYearTo)),
		Color:        get(models.FieldColor),
		VIN:          get(models.FieldVIN),
		Status:       models.RowPending,
	}

	// Make presence implies vehicle, overriding an unset or false flag.
	row.IsVehicle = parseBool(get(models.FieldIsVehicle)) || row.CarMake != ""

	if row.CategoryName != "" {
		for _, cat := range categories {
			if strings.EqualFold(cat.Name, row.CategoryName) {
				row.CategoryID = cat.ID
				break
			}
		}
	}

	addError := func(msg string) { row.Errors = append(row.Errors, msg) }
	addWarning := func(msg string) {
		if warningsEnabled {
			row.Warnings = append(row.Warnings, msg)
		}
	}

	if row.Name == "" {
		addError("Product name is required")
	}
	if row.CostPrice != nil && *row.CostPrice < 0 {
		addError("Cost price cannot be negative")
	}
	if row.SellingPrice != nil && *row.SellingPrice < 0 {
		addError("Selling price cannot be negative")
	}
	if row.CurrentStock != nil && *row.CurrentStock < 0 {
		addError("Current stock cannot be negative")
	}
	if row.TaxRate != nil && (*row.TaxRate < 0 || *row.TaxRate > 100) {
		addError("Tax rate must be between 0 and 100")
	}
	if row.YearFrom != nil && row.YearTo != nil && *row.YearFrom > *row.YearTo {
		addError("Year From cannot be greater than Year To")
	}
	if row.IsVehicle && row.CarMake == "" {
		addError("Vehicle products require a car make")
	}

	if row.CostPrice == nil || *row.CostPrice == 0 {
		addWarning("Cost price is missing or zero - ledger value won't be tracked")
	}
	if row.CurrentStock == nil {
		addWarning("Current stock not provided - defaults to 0")
	}

	return row
}

// ValidateSheet runs ValidateRow over every row of a parsed sheet.
func ValidateSheet(sheet *models.Sheet, cm models.ColumnMap, categories []models.Category, warningsEnabled bool) []*models.ImportRow {
	rows := make([]*models.ImportRow, 0, len(sheet.Rows))
	for i, raw := range sheet.Rows {
		rows = append(rows, ValidateRow(raw, sheet.Headers, cm, categories, i, warningsEnabled))
	}
	return rows
}

// parseNumber parses a numeric cell. A blank or non-numeric cell yields
// nil, keeping absence distinguishable from a provided zero.
func parseNumber(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseYear(value string) *int {
	f := parseNumber(value)
	if f == nil {
		return nil
	}
	year := int(*f)
	return &year
}

// parseBool accepts true, yes, 1 and y (case-insensitive) as true;
// everything else is false.
func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1", "y":
		return true
	default:
		return false
	}
}
