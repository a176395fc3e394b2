package models

// CreateProductRequest is the flattened wire payload accepted by the
// catalog's product-creation endpoint.
type CreateProductRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	CategoryID   string  `json:"categoryId,omitempty"`
	SKU          string  `json:"sku"`
	Barcode      string  `json:"barcode,omitempty"`
	PartNumber   string  `json:"partNumber,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	CostPrice    float64 `json:"costPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	TaxRate      float64 `json:"taxRate"`
	CurrentStock float64 `json:"currentStock"`
	MinStock     float64 `json:"minStock"`
	MaxStock     float64 `json:"maxStock"`
	IsVehicle    bool    `json:"isVehicle"`
	CarMake      string  `json:"carMake,omitempty"`
	CarModel     string  `json:"carModel,omitempty"`
	Variant      string  `json:"variant,omitempty"`
	YearFrom     *int    `json:"yearFrom,omitempty"`
	YearTo       *int    `json:"yearTo,omitempty"`
	Color        string  `json:"color,omitempty"`
	VIN          string  `json:"vin,omitempty"`
}

// DefaultMaxStock is applied when a row supplies no max stock.
const DefaultMaxStock = 1000

// ProductDraft is a validated row ready for submission. The two variants
// make the vehicle-fields-only-when-vehicle-typed rule structural instead
// of a runtime convention.
type ProductDraft interface {
	WirePayload() CreateProductRequest
}

type productCore struct {
	Name         string
	Description  string
	CategoryID   string
	SKU          string
	Barcode      string
	PartNumber   string
	Unit         string
	CostPrice    float64
	SellingPrice float64
	TaxRate      float64
	CurrentStock float64
	MinStock     float64
	MaxStock     float64
}

// StandardProduct is a non-vehicle catalog entry.
type StandardProduct struct {
	core productCore
}

func (p StandardProduct) WirePayload() CreateProductRequest {
	return wireFromCore(p.core)
}

// VehicleProduct is a vehicle-typed catalog entry; CarMake is required by
// construction.
type VehicleProduct struct {
	core     productCore
	CarMake  string
	CarModel string
	Variant  string
	YearFrom *int
	YearTo   *int
	Color    string
	VIN      string
}

func (p VehicleProduct) WirePayload() CreateProductRequest {
	req := wireFromCore(p.core)
	req.IsVehicle = true
	req.CarMake = p.CarMake
	req.CarModel = p.CarModel
	req.Variant = p.Variant
	req.YearFrom = p.YearFrom
	req.YearTo = p.YearTo
	req.Color = p.Color
	req.VIN = p.VIN
	return req
}

func wireFromCore(c productCore) CreateProductRequest {
	return CreateProductRequest{
		Name:         c.Name,
		Description:  c.Description,
		CategoryID:   c.CategoryID,
		SKU:          c.SKU,
		Barcode:      c.Barcode,
		PartNumber:   c.PartNumber,
		Unit:         c.Unit,
		CostPrice:    c.CostPrice,
		SellingPrice: c.SellingPrice,
		TaxRate:      c.TaxRate,
		CurrentStock: c.CurrentStock,
		MinStock:     c.MinStock,
		MaxStock:     c.MaxStock,
	}
}

// DraftFromRow converts a validated row into its payload variant.
// fallbackSKU is used when the row carries no SKU of its own; categoryID
// is the id resolved at import time (may be empty when the row had no
// category).
func DraftFromRow(row *ImportRow, categoryID, fallbackSKU string) ProductDraft {
	sku := row.SKU
	if sku == "" {
		sku = fallbackSKU
	}
	maxStock := float64(DefaultMaxStock)
	if row.MaxStock != nil {
		maxStock = *row.MaxStock
	}
	core := productCore{
		Name:         row.Name,
		Description:  row.Description,
		CategoryID:   categoryID,
		SKU:          sku,
		Barcode:      row.Barcode,
		PartNumber:   row.PartNumber,
		Unit:         row.Unit,
		CostPrice:    deref(row.CostPrice),
		SellingPrice: deref(row.SellingPrice),
		TaxRate:      deref(row.TaxRate),
		CurrentStock: deref(row.CurrentStock),
		MinStock:     deref(row.MinStock),
		MaxStock:     maxStock,
	}
	if row.IsVehicle {
		return VehicleProduct{
			core:     core,
			CarMake:  row.CarMake,
			CarModel: row.CarModel,
			Variant:  row.Variant,
			YearFrom: row.YearFrom,
			YearTo:   row.YearTo,
			Color:    row.Color,
			VIN:      row.VIN,
		}
	}
	return StandardProduct{core: core}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Category is a catalog category as returned by the categories endpoint.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
