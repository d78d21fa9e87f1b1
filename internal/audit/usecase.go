package audit

import (
	"context"

	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

// UseCase is the physical-count workflow: staff count a variant, the
// system quantity is corrected through the ledger's adjust path, and the
// resulting adjustment entries feed count-accuracy statistics.
type UseCase interface {
	PerformAudit(ctx context.Context, input *dto.PerformAuditInput) (*dto.AuditResult, error)
	GetAuditHistory(ctx context.Context, filters *dto.AuditHistoryFilters) ([]model.StockTransaction, int, error)
	GetAuditStats(ctx context.Context, filters *dto.AuditHistoryFilters) (*dto.AuditStats, error)
	GetStocksForAudit(ctx context.Context, filters *dto.AuditDueFilters) ([]model.StockLevel, int, error)
}
