package dto

type ReceiptFilters struct {
	VariantID  string
	SupplierID string
	// Processed filters by status when set; nil returns both.
	Processed *bool
	Page      int
	PageSize  int
}
