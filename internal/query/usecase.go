package query

import (
	"context"

	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/query/dto"
)

// UseCase serves the read-side dashboard views. It has no mutation path;
// it reads the state the ledger persisted.
type UseCase interface {
	GetStockOverview(ctx context.Context) (*dto.StockOverview, error)
	ListByStatus(ctx context.Context, filters *dto.StatusFilters) ([]model.StockLevel, int, error)
	ValueBySupplier(ctx context.Context) ([]dto.SupplierValue, error)
	SearchStock(ctx context.Context, query string, page, pageSize int) ([]model.StockLevel, int, error)
}
