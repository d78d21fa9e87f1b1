package model

import "time"

// TransactionType classifies a stock ledger entry.
type TransactionType string

const (
	TransactionStockIn    TransactionType = "stock_in"
	TransactionStockOut   TransactionType = "stock_out"
	TransactionReserve    TransactionType = "reserve"
	TransactionRelease    TransactionType = "release"
	TransactionAdjustment TransactionType = "adjustment"
)

const (
	ReferenceTypeReceipt = "receipt"
	ReferenceTypeOrder   = "order"
	ReferenceTypeAudit   = "audit"
)

// StockLevel is the current quantity state of one sellable variant.
// A missing row means the variant was never stocked and reads as zero.
type StockLevel struct {
	VariantID         string     `db:"variant_id" json:"variant_id"`
	AvailableQuantity int        `db:"available_quantity" json:"available_quantity"`
	ReservedQuantity  int        `db:"reserved_quantity" json:"reserved_quantity"`
	TotalQuantity     int        `db:"total_quantity" json:"total_quantity"` // Generated column
	LastCountedAt     *time.Time `db:"last_counted_at" json:"last_counted_at,omitempty"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	UpdatedBy         string     `db:"updated_by" json:"updated_by"`
}

// StockTransaction is one append-only ledger entry. QuantityChange is the
// signed delta applied to the available side; reserve/release carry the
// mirrored reserved delta in the before/after columns.
type StockTransaction struct {
	ID              string          `db:"id" json:"id"`
	VariantID       string          `db:"variant_id" json:"variant_id"`
	Type            TransactionType `db:"type" json:"type"`
	QuantityChange  int             `db:"quantity_change" json:"quantity_change"`
	AvailableBefore int             `db:"available_before" json:"available_before"`
	AvailableAfter  int             `db:"available_after" json:"available_after"`
	ReservedBefore  int             `db:"reserved_before" json:"reserved_before"`
	ReservedAfter   int             `db:"reserved_after" json:"reserved_after"`
	Reason          string          `db:"reason" json:"reason"`
	ReferenceType   *string         `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID     *string         `db:"reference_id" json:"reference_id,omitempty"`
	CreatedBy       string          `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// StockReceipt is a goods-received document. While unprocessed it has no
// effect on stock; processing it is a one-way transition.
type StockReceipt struct {
	ID               string     `db:"id" json:"id"`
	VariantID        string     `db:"variant_id" json:"variant_id"`
	SupplierID       string     `db:"supplier_id" json:"supplier_id"`
	QuantityReceived int        `db:"quantity_received" json:"quantity_received"`
	UnitCost         float64    `db:"unit_cost" json:"unit_cost"`
	BatchNumber      string     `db:"batch_number" json:"batch_number"`
	Notes            string     `db:"notes" json:"notes"`
	EntryDate        time.Time  `db:"entry_date" json:"entry_date"`
	ReceivedBy       string     `db:"received_by" json:"received_by"`
	IsProcessed      bool       `db:"is_processed" json:"is_processed"`
	ProcessedAt      *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	ProcessedBy      *string    `db:"processed_by" json:"processed_by,omitempty"`
}
