package audit

import (
	"context"
	"time"

	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

type Repository interface {
	// ListAdjustments returns adjustment-type ledger entries within the
	// filter's date range, oldest first.
	ListAdjustments(ctx context.Context, f *dto.AuditHistoryFilters) ([]model.StockTransaction, int, error)

	// ListStaleLevels returns stock levels never counted or last counted
	// before the cutoff, stalest first.
	ListStaleLevels(ctx context.Context, cutoff time.Time, page, pageSize int) ([]model.StockLevel, int, error)
}
