package ledger

import (
	"context"

	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

// UseCase is the only path by which stock levels change. Every mutator
// validates its input, serializes per variant, and commits the level
// update together with exactly one ledger entry, which it returns.
type UseCase interface {
	AddStock(ctx context.Context, input *dto.AddStockInput) (*model.StockTransaction, error)
	ReserveStock(ctx context.Context, input *dto.ReserveStockInput) (*model.StockTransaction, error)
	ReleaseStock(ctx context.Context, input *dto.ReleaseStockInput) (*model.StockTransaction, error)
	RemoveStock(ctx context.Context, input *dto.RemoveStockInput) (*model.StockTransaction, error)
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockTransaction, error)

	// GetCurrentStock returns a zero-quantity snapshot for a variant that
	// was never stocked, not an error.
	GetCurrentStock(ctx context.Context, variantID string) (*model.StockLevel, error)
	GetStockHistory(ctx context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error)
}
