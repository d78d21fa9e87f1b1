package ledger

import (
	"context"
	"time"

	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

type Repository interface {
	// GetStockLevel returns nil (not an error) when no row exists for the
	// variant; callers treat that as never stocked.
	GetStockLevel(ctx context.Context, variantID string) (*model.StockLevel, error)

	// ApplyChange upserts the stock level and appends the ledger entry in
	// one transaction; neither is ever persisted without the other.
	ApplyChange(ctx context.Context, lvl *model.StockLevel, txn *model.StockTransaction) error

	// ApplyChangeWithReceipt additionally inserts a processed receipt as
	// provenance for direct stock-in.
	ApplyChangeWithReceipt(ctx context.Context, lvl *model.StockLevel, txn *model.StockTransaction, receipt *model.StockReceipt) error

	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error)
}

// Locker serializes mutating calls per variant. Mutations for the same
// key never interleave while a lock is held.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
