package dto

// Stock status buckets for the dashboard.
const (
	StatusOutOfStock = "out_of_stock"
	StatusLowStock   = "low_stock"
	StatusInStock    = "in_stock"
)

// StockOverview totals the whole ledger. TotalValue prices each
// variant's available units at its most recent processed receipt cost.
type StockOverview struct {
	VariantCount    int     `db:"variant_count" json:"variant_count"`
	TotalAvailable  int     `db:"total_available" json:"total_available"`
	TotalReserved   int     `db:"total_reserved" json:"total_reserved"`
	TotalValue      float64 `db:"total_value" json:"total_value"`
	OutOfStockCount int     `db:"out_of_stock_count" json:"out_of_stock_count"`
	LowStockCount   int     `db:"low_stock_count" json:"low_stock_count"`
}

type StatusFilters struct {
	// Status selects one bucket; empty lists everything.
	Status string
	// LowStockThreshold is the inclusive upper bound for low stock.
	LowStockThreshold int
	Page              int
	PageSize          int
}

type SupplierValue struct {
	SupplierID   string  `db:"supplier_id" json:"supplier_id"`
	VariantCount int     `db:"variant_count" json:"variant_count"`
	TotalValue   float64 `db:"total_value" json:"total_value"`
}
