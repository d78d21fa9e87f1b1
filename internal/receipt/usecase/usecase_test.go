package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/receipt"
	receiptdto "github.com/retailcore/inventory-service/internal/receipt/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	levels   map[string]model.StockLevel
	txns     []model.StockTransaction
	receipts map[string]model.StockReceipt
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		levels:   make(map[string]model.StockLevel),
		receipts: make(map[string]model.StockReceipt),
	}
}

// fakeStore implements ledger.Repository for the stock-level read.

func (f *fakeStore) GetStockLevel(_ context.Context, variantID string) (*model.StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lvl, ok := f.levels[variantID]
	if !ok {
		return nil, nil
	}
	cp := lvl
	return &cp, nil
}

func (f *fakeStore) ApplyChange(_ context.Context, lvl *model.StockLevel, txn *model.StockTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels[lvl.VariantID] = *lvl
	f.txns = append(f.txns, *txn)
	return nil
}

func (f *fakeStore) ApplyChangeWithReceipt(ctx context.Context, lvl *model.StockLevel, txn *model.StockTransaction, r *model.StockReceipt) error {
	if err := f.ApplyChange(ctx, lvl, txn); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts[r.ID] = *r
	return nil
}

func (f *fakeStore) ListTransactions(_ context.Context, _ *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.StockTransaction(nil), f.txns...), len(f.txns), nil
}

// fakeStore also implements receipt.Repository over the same state.

func (f *fakeStore) Create(_ context.Context, r *model.StockReceipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts[r.ID] = *r
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*model.StockReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[id]
	if !ok {
		return nil, model.ErrReceiptNotFound
	}
	cp := r
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, r *model.StockReceipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.receipts[r.ID]
	if !ok {
		return model.ErrReceiptNotFound
	}
	if existing.IsProcessed {
		return model.ErrReceiptAlreadyProcessed
	}
	f.receipts[r.ID] = *r
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.receipts[id]
	if !ok {
		return model.ErrReceiptNotFound
	}
	if existing.IsProcessed {
		return model.ErrReceiptAlreadyProcessed
	}
	delete(f.receipts, id)
	return nil
}

func (f *fakeStore) FindAll(_ context.Context, filters *receiptdto.ReceiptFilters) ([]model.StockReceipt, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.StockReceipt
	for _, r := range f.receipts {
		if filters.SupplierID != "" && r.SupplierID != filters.SupplierID {
			continue
		}
		if filters.Processed != nil && r.IsProcessed != *filters.Processed {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeStore) Process(_ context.Context, r *model.StockReceipt, lvl *model.StockLevel, txn *model.StockTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.receipts[r.ID]
	if !ok {
		return model.ErrReceiptNotFound
	}
	if existing.IsProcessed {
		return model.ErrReceiptAlreadyProcessed
	}
	f.receipts[r.ID] = *r
	f.levels[lvl.VariantID] = *lvl
	f.txns = append(f.txns, *txn)
	return nil
}

type noopLocker struct{}

func (noopLocker) AcquireLock(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
func (noopLocker) ReleaseLock(context.Context, string, string) error { return nil }

func newTestUseCase(store *fakeStore) receipt.UseCase {
	return NewReceiptUseCase(store, store, noopLocker{}, logger.NewNop(), time.Second)
}

func TestCreateReceiptDoesNotTouchStock(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(store)

	r, err := uc.CreateReceipt(context.Background(), &receiptdto.CreateReceiptInput{
		VariantID:        "variant-y",
		SupplierID:       "supplier-2",
		QuantityReceived: 15,
		UnitCost:         3.10,
		BatchNumber:      "B-77",
		ReceivedBy:       "clerk",
	})
	require.NoError(t, err)
	assert.False(t, r.IsProcessed)
	assert.Empty(t, store.levels)
	assert.Empty(t, store.txns)
}

func TestCreateReceiptValidatesInput(t *testing.T) {
	uc := newTestUseCase(newFakeStore())

	_, err := uc.CreateReceipt(context.Background(), &receiptdto.CreateReceiptInput{
		VariantID: "variant-y", QuantityReceived: 0, ReceivedBy: "clerk",
	})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = uc.CreateReceipt(context.Background(), &receiptdto.CreateReceiptInput{
		VariantID: "variant-y", QuantityReceived: 5, UnitCost: -1, ReceivedBy: "clerk",
	})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestProcessReceiptIsIdempotent(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(store)

	r, err := uc.CreateReceipt(context.Background(), &receiptdto.CreateReceiptInput{
		VariantID:        "variant-y",
		SupplierID:       "supplier-2",
		QuantityReceived: 15,
		ReceivedBy:       "clerk",
	})
	require.NoError(t, err)

	processed, err := uc.ProcessReceipt(context.Background(), r.ID, "clerk")
	require.NoError(t, err)
	assert.True(t, processed.IsProcessed)
	require.NotNil(t, processed.ProcessedAt)

	lvl := store.levels["variant-y"]
	assert.Equal(t, 15, lvl.AvailableQuantity)
	require.Len(t, store.txns, 1)
	assert.Equal(t, model.TransactionStockIn, store.txns[0].Type)
	require.NotNil(t, store.txns[0].ReferenceID)
	assert.Equal(t, r.ID, *store.txns[0].ReferenceID)

	// Second call is rejected and changes nothing
	_, err = uc.ProcessReceipt(context.Background(), r.ID, "clerk")
	assert.ErrorIs(t, err, model.ErrReceiptAlreadyProcessed)
	assert.Equal(t, 15, store.levels["variant-y"].AvailableQuantity)
	assert.Len(t, store.txns, 1)
}

func TestProcessReceiptUnknownID(t *testing.T) {
	uc := newTestUseCase(newFakeStore())

	_, err := uc.ProcessReceipt(context.Background(), "missing", "clerk")
	assert.ErrorIs(t, err, model.ErrReceiptNotFound)
}

func TestUpdateAndDeleteOnlyWhileDraft(t *testing.T) {
	store := newFakeStore()
	uc := newTestUseCase(store)

	r, err := uc.CreateReceipt(context.Background(), &receiptdto.CreateReceiptInput{
		VariantID:        "variant-y",
		SupplierID:       "supplier-2",
		QuantityReceived: 15,
		ReceivedBy:       "clerk",
	})
	require.NoError(t, err)

	updated, err := uc.UpdateReceipt(context.Background(), &receiptdto.UpdateReceiptInput{
		ReceiptID: r.ID, QuantityReceived: 18, UnitCost: 2.50, BatchNumber: "B-78",
	})
	require.NoError(t, err)
	assert.Equal(t, 18, updated.QuantityReceived)

	_, err = uc.ProcessReceipt(context.Background(), r.ID, "clerk")
	require.NoError(t, err)

	_, err = uc.UpdateReceipt(context.Background(), &receiptdto.UpdateReceiptInput{
		ReceiptID: r.ID, QuantityReceived: 99, UnitCost: 1,
	})
	assert.ErrorIs(t, err, model.ErrReceiptAlreadyProcessed)

	err = uc.DeleteReceipt(context.Background(), r.ID)
	assert.ErrorIs(t, err, model.ErrReceiptAlreadyProcessed)
}

func TestProcessedReceiptAccumulatesOnExistingLevel(t *testing.T) {
	store := newFakeStore()
	store.levels["variant-y"] = model.StockLevel{
		VariantID: "variant-y", AvailableQuantity: 7, ReservedQuantity: 2,
	}
	uc := newTestUseCase(store)

	r, err := uc.CreateReceipt(context.Background(), &receiptdto.CreateReceiptInput{
		VariantID:        "variant-y",
		SupplierID:       "supplier-2",
		QuantityReceived: 15,
		ReceivedBy:       "clerk",
	})
	require.NoError(t, err)

	_, err = uc.ProcessReceipt(context.Background(), r.ID, "clerk")
	require.NoError(t, err)

	lvl := store.levels["variant-y"]
	assert.Equal(t, 22, lvl.AvailableQuantity)
	assert.Equal(t, 2, lvl.ReservedQuantity)

	require.Len(t, store.txns, 1)
	assert.Equal(t, 7, store.txns[0].AvailableBefore)
	assert.Equal(t, 22, store.txns[0].AvailableAfter)
}
