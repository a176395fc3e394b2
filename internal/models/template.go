package models

// ImportTemplateColumn defines a column in the downloadable template.
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Field       Field  `json:"field"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of the downloadable template.
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ProductImportColumns returns the template columns in the fixed header
// order the download uses.
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "Name", Field: FieldName, Description: "Product name", Required: true, Type: "string", Example: "Brake Pad Set Front"},
		{Name: "SKU", Field: FieldSKU, Description: "Unique product SKU (auto-assigned when blank)", Type: "string", Example: "BRK-0042"},
		{Name: "Category", Field: FieldCategory, Description: "Category name - auto-created if not found", Type: "string", Example: "Brakes"},
		{Name: "Barcode", Field: FieldBarcode, Description: "EAN/UPC barcode", Type: "string", Example: "4006381333931"},
		{Name: "Unit", Field: FieldUnit, Description: "Unit of measure", Type: "string", Example: "pcs"},
		{Name: "Cost Price", Field: FieldCostPrice, Description: "Purchase cost per unit", Type: "number", Example: "24.50"},
		{Name: "Selling Price", Field: FieldSellingPrice, Description: "Retail price per unit", Type: "number", Example: "39.99"},
		{Name: "Tax Rate", Field: FieldTaxRate, Description: "Tax percentage, 0-100", Type: "number", Example: "18"},
		{Name: "Current Stock", Field: FieldCurrentStock, Description: "Quantity on hand", Type: "number", Example: "12"},
		{Name: "Min Stock", Field: FieldMinStock, Description: "Reorder threshold", Type: "number", Example: "2"},
		{Name: "Max Stock", Field: FieldMaxStock, Description: "Maximum stock level", Type: "number", Example: "100"},
		{Name: "Car Make", Field: FieldCarMake, Description: "Vehicle make (marks the row as a vehicle part)", Type: "string", Example: "Toyota"},
		{Name: "Car Model", Field: FieldCarModel, Description: "Vehicle model", Type: "string", Example: "Corolla"},
		{Name: "Variant", Field: FieldVariant, Description: "Trim or variant", Type: "string", Example: "GLi"},
		{Name: "Year From", Field: FieldYearFrom, Description: "First compatible model year", Type: "number", Example: "2014"},
		{Name: "Year To", Field: FieldYearTo, Description: "Last compatible model year", Type: "number", Example: "2019"},
		{Name: "Color", Field: FieldColor, Description: "Color", Type: "string", Example: ""},
		{Name: "Part Number", Field: FieldPartNumber, Description: "Manufacturer part number", Type: "string", Example: "04465-02220"},
	}
}

// ProductImportTemplate returns the template definition for products.
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}

// TemplateExampleRow returns the single example row shipped in the
// downloadable template, aligned with ProductImportColumns order.
func TemplateExampleRow() []string {
	cols := ProductImportColumns()
	row := make([]string, len(cols))
	for i, col := range cols {
		row[i] = col.Example
	}
	return row
}
