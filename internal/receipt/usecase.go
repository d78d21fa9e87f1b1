package receipt

import (
	"context"

	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/receipt/dto"
)

// UseCase manages the two-phase stock-in: a draft receipt records the
// intent to receive goods; processing it is the single atomic point at
// which stock actually changes, and it happens at most once.
type UseCase interface {
	CreateReceipt(ctx context.Context, input *dto.CreateReceiptInput) (*model.StockReceipt, error)
	ProcessReceipt(ctx context.Context, receiptID, actor string) (*model.StockReceipt, error)
	UpdateReceipt(ctx context.Context, input *dto.UpdateReceiptInput) (*model.StockReceipt, error)
	DeleteReceipt(ctx context.Context, receiptID string) error
	GetReceipt(ctx context.Context, receiptID string) (*model.StockReceipt, error)
	ListReceipts(ctx context.Context, filters *dto.ReceiptFilters) ([]model.StockReceipt, int, error)
}
