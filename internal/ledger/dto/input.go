package dto

type AddStockInput struct {
	VariantID   string
	Quantity    int
	SupplierID  string
	UnitCost    float64
	BatchNumber string
	Notes       string
	Actor       string
}

type ReserveStockInput struct {
	VariantID   string
	Quantity    int
	Reason      string
	ReferenceID string // order id, when the caller is the order workflow
	Actor       string
}

type ReleaseStockInput struct {
	VariantID   string
	Quantity    int
	Reason      string
	ReferenceID string
	Actor       string
}

type RemoveStockInput struct {
	VariantID string
	Quantity  int
	Reason    string
	Actor     string
}

type AdjustStockInput struct {
	VariantID            string
	NewAvailableQuantity int
	Reason               string
	ReferenceType        string
	ReferenceID          string
	// MarkCounted stamps last_counted_at; set by the audit workflow.
	MarkCounted bool
	Actor       string
}
