package dto

import "time"

type TransactionFilters struct {
	VariantID string
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
