package mapper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/autocitypro/import-service/internal/models"
)

// ErrNameNotMapped blocks advancement from the mapping step: there is
// nothing to import when no column carries the product name.
var ErrNameNotMapped = errors.New("no column is mapped to the product name field")

// synonyms is the static header dictionary used to seed a column map.
// Lookup is against the lower-cased, trimmed header.
var synonyms = map[string]models.Field{
	"name":         models.FieldName,
	"product name": models.FieldName,
	"product":      models.FieldName,
	"item name":    models.FieldName,
	"item":         models.FieldName,
	"title":        models.FieldName,

	"description": models.FieldDescription,
	"desc":        models.FieldDescription,
	"details":     models.FieldDescription,

	"category":      models.FieldCategory,
	"category name": models.FieldCategory,
	"group":         models.FieldCategory,

	"sku":          models.FieldSKU,
	"code":         models.FieldSKU,
	"product code": models.FieldSKU,
	"item code":    models.FieldSKU,

	"barcode":  models.FieldBarcode,
	"bar code": models.FieldBarcode,
	"ean":      models.FieldBarcode,
	"upc":      models.FieldBarcode,

	"part number": models.FieldPartNumber,
	"part no":     models.FieldPartNumber,
	"part no.":    models.FieldPartNumber,
	"partnumber":  models.FieldPartNumber,
	"oem":         models.FieldPartNumber,
	"oem number":  models.FieldPartNumber,

	"unit":            models.FieldUnit,
	"uom":             models.FieldUnit,
	"unit of measure": models.FieldUnit,

	"cost price":     models.FieldCostPrice,
	"cost":           models.FieldCostPrice,
	"purchase price": models.FieldCostPrice,
	"buying price":   models.FieldCostPrice,

	"selling price": models.FieldSellingPrice,
	"price":         models.FieldSellingPrice,
	"sale price":    models.FieldSellingPrice,
	"retail price":  models.FieldSellingPrice,
	"mrp":           models.FieldSellingPrice,

	"tax rate": models.FieldTaxRate,
	"tax":      models.FieldTaxRate,
	"tax %":    models.FieldTaxRate,
	"gst":      models.FieldTaxRate,
	"vat":      models.FieldTaxRate,

	"current stock": models.FieldCurrentStock,
	"stock":         models.FieldCurrentStock,
	"qty":           models.FieldCurrentStock,
	"quantity":      models.FieldCurrentStock,
	"on hand":       models.FieldCurrentStock,
	"in stock":      models.FieldCurrentStock,

	"min stock":     models.FieldMinStock,
	"minimum stock": models.FieldMinStock,
	"min qty":       models.FieldMinStock,
	"reorder level": models.FieldMinStock,

	"max stock":     models.FieldMaxStock,
	"maximum stock": models.FieldMaxStock,
	"max qty":       models.FieldMaxStock,

	"is vehicle": models.FieldIsVehicle,
	"vehicle":    models.FieldIsVehicle,

	"make":         models.FieldCarMake,
	"car make":     models.FieldCarMake,
	"manufacturer": models.FieldCarMake,

	"model":     models.FieldCarModel,
	"car model": models.FieldCarModel,

	"variant": models.FieldVariant,
	"trim":    models.FieldVariant,

	"year from":  models.FieldYearFrom,
	"from year":  models.FieldYearFrom,
	"start year": models.FieldYearFrom,

	"year to":  models.FieldYearTo,
	"to year":  models.FieldYearTo,
	"end year": models.FieldYearTo,

	"color":  models.FieldColor,
	"colour": models.FieldColor,

	"vin":            models.FieldVIN,
	"vin number":     models.FieldVIN,
	"chassis":        models.FieldVIN,
	"chassis number": models.FieldVIN,
}

// Propose builds the initial column map from the parsed headers. Headers
// not found in the dictionary map to unmapped and are skipped downstream.
func Propose(headers []string) models.ColumnMap {
	cm := make(models.ColumnMap, len(headers))
	for _, h := range headers {
		cm[h] = synonyms[strings.ToLower(strings.TrimSpace(h))]
	}
	return cm
}

// Apply overlays user overrides onto the current map. Overrides may target
// any header from the sheet and any known field, including unmapped.
// Multiple headers mapping to the same field is not rejected; extraction
// consults the earliest such header in file order.
func Apply(cm models.ColumnMap, headers []string, overrides map[string]models.Field) (models.ColumnMap, error) {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[h] = true
	}
	out := make(models.ColumnMap, len(cm))
	for h, f := range cm {
		out[h] = f
	}
	for h, f := range overrides {
		if !known[h] {
			return nil, fmt.Errorf("unknown column %q", h)
		}
		if !f.Known() {
			return nil, fmt.Errorf("unknown field %q for column %q", f, h)
		}
		out[h] = f
	}
	return out, nil
}

// Validate is the advancement gate: the pipeline may proceed to row
// validation only when at least one header maps to the name field.
func Validate(cm models.ColumnMap, headers []string) error {
	if _, ok := cm.HeaderFor(models.FieldName, headers); !ok {
		return ErrNameNotMapped
	}
	return nil
}
