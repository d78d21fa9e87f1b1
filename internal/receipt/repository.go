package receipt

import (
	"context"

	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/receipt/dto"
)

type Repository interface {
	Create(ctx context.Context, r *model.StockReceipt) error

	// GetByID returns model.ErrReceiptNotFound when no row exists.
	GetByID(ctx context.Context, id string) (*model.StockReceipt, error)

	// Update and Delete only touch draft rows; a processed receipt is
	// part of the historical record and both return
	// model.ErrReceiptAlreadyProcessed for it.
	Update(ctx context.Context, r *model.StockReceipt) error
	Delete(ctx context.Context, id string) error

	FindAll(ctx context.Context, f *dto.ReceiptFilters) ([]model.StockReceipt, int, error)

	// Process flips is_processed, upserts the stock level and appends the
	// ledger entry in one transaction. The flip is guarded by
	// is_processed = false in SQL, so a concurrent duplicate fails with
	// model.ErrReceiptAlreadyProcessed and leaves stock untouched.
	Process(ctx context.Context, receipt *model.StockReceipt, lvl *model.StockLevel, txn *model.StockTransaction) error
}
