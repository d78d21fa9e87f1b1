package dto

import "time"

type PerformAuditInput struct {
	VariantID      string
	ActualQuantity int
	Auditor        string
	Notes          string
}

// AuditResult reports one reconciliation: what the system expected, what
// was counted, and the signed difference applied to the ledger.
type AuditResult struct {
	VariantID        string    `json:"variant_id"`
	ExpectedQuantity int       `json:"expected_quantity"`
	ActualQuantity   int       `json:"actual_quantity"`
	Difference       int       `json:"difference"`
	Auditor          string    `json:"auditor"`
	CountedAt        time.Time `json:"counted_at"`
	TransactionID    string    `json:"transaction_id"`
}

type AuditHistoryFilters struct {
	VariantID string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

type AuditDueFilters struct {
	// StaleDays overrides the configured audit-due window when positive.
	StaleDays int
	Page      int
	PageSize  int
}

// AuditStats summarizes count accuracy over a set of adjustments.
// AccuracyRate is a percentage; zero audited yields zero, not NaN.
type AuditStats struct {
	TotalAudited int     `json:"total_audited"`
	CorrectCount int     `json:"correct_count"`
	OverCount    int     `json:"over_count"`
	UnderCount   int     `json:"under_count"`
	AccuracyRate float64 `json:"accuracy_rate"`
}
