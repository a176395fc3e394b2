package models

// Field is a canonical product field a source column can map to.
type Field string

const (
	FieldUnmapped     Field = ""
	FieldName         Field = "name"
	FieldDescription  Field = "description"
	FieldCategory     Field = "category"
	FieldSKU          Field = "sku"
	FieldBarcode      Field = "barcode"
	FieldPartNumber   Field = "partNumber"
	FieldUnit         Field = "unit"
	FieldCostPrice    Field = "costPrice"
	FieldSellingPrice Field = "sellingPrice"
	FieldTaxRate      Field = "taxRate"
	FieldCurrentStock Field = "currentStock"
	FieldMinStock     Field = "minStock"
	FieldMaxStock     Field = "maxStock"
	FieldIsVehicle    Field = "isVehicle"
	FieldCarMake      Field = "carMake"
	FieldCarModel     Field = "carModel"
	FieldVariant      Field = "variant"
	FieldYearFrom     Field = "yearFrom"
	FieldYearTo       Field = "yearTo"
	FieldColor        Field = "color"
	FieldVIN          Field = "vin"
)

// Fields lists every mappable canonical field, in template order.
func Fields() []Field {
	return []Field{
		FieldName, FieldSKU, FieldCategory, FieldBarcode, FieldUnit,
		FieldCostPrice, FieldSellingPrice, FieldTaxRate,
		FieldCurrentStock, FieldMinStock, FieldMaxStock,
		FieldCarMake, FieldCarModel, FieldVariant,
		FieldYearFrom, FieldYearTo, FieldColor, FieldPartNumber,
		FieldDescription, FieldIsVehicle, FieldVIN,
	}
}

// Known reports whether f is a recognized canonical field (or unmapped).
func (f Field) Known() bool {
	if f == FieldUnmapped {
		return true
	}
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// ColumnMap associates each source header with a canonical field.
// Headers absent from the map, or mapped to FieldUnmapped, are skipped.
// Built once at file-load time from the synonym dictionary, then freely
// editable until validation derives rows from it.
type ColumnMap map[string]Field

// HeaderFor returns the first header (in the given header order) mapped to
// the field, and whether one exists. At most one header is ever consulted
// per field; when the user maps several headers to the same field the
// earliest one in file order wins.
func (m ColumnMap) HeaderFor(field Field, headers []string) (string, bool) {
	for _, h := range headers {
		if m[h] == field {
			return h, true
		}
	}
	return "", false
}
