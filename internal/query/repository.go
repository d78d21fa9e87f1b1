package query

import (
	"context"

	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/query/dto"
)

type Repository interface {
	Overview(ctx context.Context, lowStockThreshold int) (*dto.StockOverview, error)
	ListByStatus(ctx context.Context, f *dto.StatusFilters) ([]model.StockLevel, int, error)
	ValueBySupplier(ctx context.Context) ([]dto.SupplierValue, error)

	// SearchByPattern is the SQL fallback used when no search index is
	// configured.
	SearchByPattern(ctx context.Context, pattern string, page, pageSize int) ([]model.StockLevel, int, error)
	GetByVariantIDs(ctx context.Context, variantIDs []string) ([]model.StockLevel, error)
}
