package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportMode selects the strictness and editability policy for a session.
// The mode is fixed at session creation; switching modes means discarding
// the session and starting over.
type ImportMode string

const (
	// ModeFast creates new catalog entries with full detail. Soft
	// warnings are enabled and rows are read-only after validation.
	ModeFast ImportMode = "fast"
	// ModeStock corrects stock quantities on an already-structured
	// catalog. Warnings are suppressed and CurrentStock stays editable
	// per row after validation.
	ModeStock ImportMode = "stock"
)

// WarningsEnabled reports whether soft warnings apply in this mode.
func (m ImportMode) WarningsEnabled() bool {
	return m == ModeFast
}

// StockEditable reports whether per-row stock edits are allowed after
// validation.
func (m ImportMode) StockEditable() bool {
	return m == ModeStock
}

// Valid reports whether m is one of the two known modes.
func (m ImportMode) Valid() bool {
	return m == ModeFast || m == ModeStock
}

// RowStatus is the lifecycle state of one candidate row.
type RowStatus string

const (
	RowPending   RowStatus = "pending"
	RowImporting RowStatus = "importing"
	RowSuccess   RowStatus = "success"
	RowError     RowStatus = "error"
	RowSkipped   RowStatus = "skipped"
)

// Terminal reports whether no further transition happens without an
// explicit user retry.
func (s RowStatus) Terminal() bool {
	return s == RowSuccess || s == RowError || s == RowSkipped
}

// ImportRow is one candidate product derived from one spreadsheet row.
// RowIndex is the stable position in the original file and is the key for
// all later lookups and updates.
type ImportRow struct {
	RowIndex int `json:"rowIndex"`

	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`
	CategoryID   string `json:"categoryId,omitempty"`
	SKU          string `json:"sku,omitempty"`
	Barcode      string `json:"barcode,omitempty"`
	PartNumber   string `json:"partNumber,omitempty"`
	Unit         string `json:"unit,omitempty"`

	// Numeric cells parse to pointers so that an absent value stays
	// distinguishable from a provided zero.
	CostPrice    *float64 `json:"costPrice,omitempty"`
	SellingPrice *float64 `json:"sellingPrice,omitempty"`
	TaxRate      *float64 `json:"taxRate,omitempty"`
	CurrentStock *float64 `json:"currentStock,omitempty"`
	MinStock     *float64 `json:"minStock,omitempty"`
	MaxStock     *float64 `json:"maxStock,omitempty"`

	IsVehicle bool   `json:"isVehicle"`
	CarMake   string `json:"carMake,omitempty"`
	CarModel  string `json:"carModel,omitempty"`
	Variant   string `json:"variant,omitempty"`
	YearFrom  *int   `json:"yearFrom,omitempty"`
	YearTo    *int   `json:"yearTo,omitempty"`
	Color     string `json:"color,omitempty"`
	VIN       string `json:"vin,omitempty"`

	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	Status      RowStatus `json:"status"`
	ImportError string    `json:"importError,omitempty"`
	ImportedSKU string    `json:"importedSku,omitempty"`
}

// Importable reports whether the row may be submitted to the creation
// endpoint. A row with hard errors is never submitted.
func (r *ImportRow) Importable() bool {
	return len(r.Errors) == 0
}

// ImportProgress is the aggregate counter set recomputed after every
// terminal status change. Total excludes rows pre-marked skipped from the
// iteration loop, but Skipped starts seeded with the pre-skip count.
type ImportProgress struct {
	Done    int  `json:"done"`
	Total   int  `json:"total"`
	Success int  `json:"success"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
	Running bool `json:"running"`
}

// RowStats summarizes a validated row set for the review step.
type RowStats struct {
	Total        int `json:"total"`
	Valid        int `json:"valid"`
	WithErrors   int `json:"withErrors"`
	WithWarnings int `json:"withWarnings"`
}

// ComputeRowStats tallies a validated row set.
func ComputeRowStats(rows []*ImportRow) RowStats {
	stats := RowStats{Total: len(rows)}
	for _, r := range rows {
		if len(r.Errors) > 0 {
			stats.WithErrors++
		} else {
			stats.Valid++
		}
		if len(r.Warnings) > 0 {
			stats.WithWarnings++
		}
	}
	return stats
}
