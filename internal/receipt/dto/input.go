package dto

import "time"

type CreateReceiptInput struct {
	VariantID        string
	SupplierID       string
	QuantityReceived int
	UnitCost         float64
	BatchNumber      string
	Notes            string
	EntryDate        *time.Time // defaults to now
	ReceivedBy       string
}

type UpdateReceiptInput struct {
	ReceiptID        string
	QuantityReceived int
	UnitCost         float64
	BatchNumber      string
	Notes            string
}
