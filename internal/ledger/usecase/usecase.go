package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/inventory-service/internal/ledger"
	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/pkg/search"
	"go.uber.org/zap"
)

type ledgerUseCase struct {
	repo    ledger.Repository
	locker  ledger.Locker
	es      *search.Client // nil when search is not configured
	logger  logger.ZapLogger
	lockTTL time.Duration
}

func NewLedgerUseCase(repo ledger.Repository, locker ledger.Locker, es *search.Client, log logger.ZapLogger, lockTTL time.Duration) ledger.UseCase {
	return &ledgerUseCase{
		repo:    repo,
		locker:  locker,
		es:      es,
		logger:  log,
		lockTTL: lockTTL,
	}
}

// indexLevel mirrors the committed level into the search index. Index
// failures are logged, never surfaced: the ledger has already committed.
func (uc *ledgerUseCase) indexLevel(ctx context.Context, lvl *model.StockLevel, supplierID, batchNumber string) {
	if uc.es == nil {
		return
	}
	err := uc.es.IndexStock(ctx, &search.StockDocument{
		VariantID:         lvl.VariantID,
		SupplierID:        supplierID,
		BatchNumber:       batchNumber,
		AvailableQuantity: lvl.AvailableQuantity,
		ReservedQuantity:  lvl.ReservedQuantity,
	})
	if err != nil {
		uc.logger.Warn("failed to index stock level", zap.String("variant_id", lvl.VariantID), zap.Error(err))
	}
}

// lockVariant serializes mutators for one variant. The returned release
// func must be deferred by the caller.
func (uc *ledgerUseCase) lockVariant(ctx context.Context, variantID string) (func(), error) {
	lockKey := "lock:stock:" + variantID
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, uc.lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire stock lock", zap.String("variant_id", variantID), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond) // wait before retry
	}

	if !acquired {
		return nil, model.ErrLockNotAcquired
	}

	release := func() {
		if err := uc.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release stock lock", zap.String("variant_id", variantID), zap.Error(err))
		}
	}
	return release, nil
}

// currentLevel reads the stock level under the lock, substituting a
// zero-quantity record for a variant that was never stocked.
func (uc *ledgerUseCase) currentLevel(ctx context.Context, variantID string) (*model.StockLevel, error) {
	lvl, err := uc.repo.GetStockLevel(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if lvl == nil {
		lvl = &model.StockLevel{VariantID: variantID}
	}
	return lvl, nil
}

func (uc *ledgerUseCase) AddStock(ctx context.Context, input *dto.AddStockInput) (*model.StockTransaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: add quantity must be positive, got %d", model.ErrInvalidQuantity, input.Quantity)
	}

	release, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer release()

	lvl, err := uc.currentLevel(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	availableBefore := lvl.AvailableQuantity
	lvl.AvailableQuantity += input.Quantity
	lvl.UpdatedAt = now
	lvl.UpdatedBy = input.Actor

	// Direct stock-in keeps a processed receipt as provenance, so every
	// StockIn entry can be traced back to a goods-received document.
	receipt := &model.StockReceipt{
		ID:               uuid.New().String(),
		VariantID:        input.VariantID,
		SupplierID:       input.SupplierID,
		QuantityReceived: input.Quantity,
		UnitCost:         input.UnitCost,
		BatchNumber:      input.BatchNumber,
		Notes:            input.Notes,
		EntryDate:        now,
		ReceivedBy:       input.Actor,
		IsProcessed:      true,
		ProcessedAt:      &now,
		ProcessedBy:      &input.Actor,
	}

	refType := model.ReferenceTypeReceipt
	txn := &model.StockTransaction{
		ID:              uuid.New().String(),
		VariantID:       input.VariantID,
		Type:            model.TransactionStockIn,
		QuantityChange:  input.Quantity,
		AvailableBefore: availableBefore,
		AvailableAfter:  lvl.AvailableQuantity,
		ReservedBefore:  lvl.ReservedQuantity,
		ReservedAfter:   lvl.ReservedQuantity,
		Reason:          fmt.Sprintf("stock received from supplier %s", input.SupplierID),
		ReferenceType:   &refType,
		ReferenceID:     &receipt.ID,
		CreatedBy:       input.Actor,
		CreatedAt:       now,
	}

	if err := uc.repo.ApplyChangeWithReceipt(ctx, lvl, txn, receipt); err != nil {
		return nil, err
	}
	uc.indexLevel(ctx, lvl, input.SupplierID, input.BatchNumber)

	uc.logger.Info("stock added",
		zap.String("variant_id", input.VariantID),
		zap.Int("quantity", input.Quantity),
		zap.Int("available", lvl.AvailableQuantity),
	)
	return txn, nil
}

func (uc *ledgerUseCase) ReserveStock(ctx context.Context, input *dto.ReserveStockInput) (*model.StockTransaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: reserve quantity must be positive, got %d", model.ErrInvalidQuantity, input.Quantity)
	}

	release, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer release()

	lvl, err := uc.currentLevel(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	if lvl.AvailableQuantity < input.Quantity {
		return nil, fmt.Errorf("%w: variant %s has %d available, requested %d",
			model.ErrInsufficientStock, input.VariantID, lvl.AvailableQuantity, input.Quantity)
	}

	now := time.Now()
	availableBefore := lvl.AvailableQuantity
	reservedBefore := lvl.ReservedQuantity
	lvl.AvailableQuantity -= input.Quantity
	lvl.ReservedQuantity += input.Quantity
	lvl.UpdatedAt = now
	lvl.UpdatedBy = input.Actor

	txn := &model.StockTransaction{
		ID:              uuid.New().String(),
		VariantID:       input.VariantID,
		Type:            model.TransactionReserve,
		QuantityChange:  -input.Quantity,
		AvailableBefore: availableBefore,
		AvailableAfter:  lvl.AvailableQuantity,
		ReservedBefore:  reservedBefore,
		ReservedAfter:   lvl.ReservedQuantity,
		Reason:          input.Reason,
		ReferenceType:   orderReference(input.ReferenceID),
		ReferenceID:     optional(input.ReferenceID),
		CreatedBy:       input.Actor,
		CreatedAt:       now,
	}

	if err := uc.repo.ApplyChange(ctx, lvl, txn); err != nil {
		return nil, err
	}
	uc.indexLevel(ctx, lvl, "", "")

	uc.logger.Info("stock reserved",
		zap.String("variant_id", input.VariantID),
		zap.Int("quantity", input.Quantity),
		zap.Int("available", lvl.AvailableQuantity),
		zap.Int("reserved", lvl.ReservedQuantity),
	)
	return txn, nil
}

func (uc *ledgerUseCase) ReleaseStock(ctx context.Context, input *dto.ReleaseStockInput) (*model.StockTransaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: release quantity must be positive, got %d", model.ErrInvalidQuantity, input.Quantity)
	}

	release, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer release()

	lvl, err := uc.currentLevel(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	if lvl.ReservedQuantity < input.Quantity {
		return nil, fmt.Errorf("%w: variant %s has %d reserved, requested %d",
			model.ErrInsufficientReservedStock, input.VariantID, lvl.ReservedQuantity, input.Quantity)
	}

	now := time.Now()
	availableBefore := lvl.AvailableQuantity
	reservedBefore := lvl.ReservedQuantity
	lvl.AvailableQuantity += input.Quantity
	lvl.ReservedQuantity -= input.Quantity
	lvl.UpdatedAt = now
	lvl.UpdatedBy = input.Actor

	txn := &model.StockTransaction{
		ID:              uuid.New().String(),
		VariantID:       input.VariantID,
		Type:            model.TransactionRelease,
		QuantityChange:  input.Quantity,
		AvailableBefore: availableBefore,
		AvailableAfter:  lvl.AvailableQuantity,
		ReservedBefore:  reservedBefore,
		ReservedAfter:   lvl.ReservedQuantity,
		Reason:          input.Reason,
		ReferenceType:   orderReference(input.ReferenceID),
		ReferenceID:     optional(input.ReferenceID),
		CreatedBy:       input.Actor,
		CreatedAt:       now,
	}

	if err := uc.repo.ApplyChange(ctx, lvl, txn); err != nil {
		return nil, err
	}
	uc.indexLevel(ctx, lvl, "", "")

	uc.logger.Info("stock released",
		zap.String("variant_id", input.VariantID),
		zap.Int("quantity", input.Quantity),
		zap.Int("available", lvl.AvailableQuantity),
		zap.Int("reserved", lvl.ReservedQuantity),
	)
	return txn, nil
}

func (uc *ledgerUseCase) RemoveStock(ctx context.Context, input *dto.RemoveStockInput) (*model.StockTransaction, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: remove quantity must be positive, got %d", model.ErrInvalidQuantity, input.Quantity)
	}

	release, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer release()

	lvl, err := uc.currentLevel(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	if lvl.AvailableQuantity < input.Quantity {
		return nil, fmt.Errorf("%w: variant %s has %d available, requested %d",
			model.ErrInsufficientStock, input.VariantID, lvl.AvailableQuantity, input.Quantity)
	}

	now := time.Now()
	availableBefore := lvl.AvailableQuantity
	lvl.AvailableQuantity -= input.Quantity
	lvl.UpdatedAt = now
	lvl.UpdatedBy = input.Actor

	txn := &model.StockTransaction{
		ID:              uuid.New().String(),
		VariantID:       input.VariantID,
		Type:            model.TransactionStockOut,
		QuantityChange:  -input.Quantity,
		AvailableBefore: availableBefore,
		AvailableAfter:  lvl.AvailableQuantity,
		ReservedBefore:  lvl.ReservedQuantity,
		ReservedAfter:   lvl.ReservedQuantity,
		Reason:          input.Reason,
		CreatedBy:       input.Actor,
		CreatedAt:       now,
	}

	if err := uc.repo.ApplyChange(ctx, lvl, txn); err != nil {
		return nil, err
	}
	uc.indexLevel(ctx, lvl, "", "")

	uc.logger.Info("stock removed",
		zap.String("variant_id", input.VariantID),
		zap.Int("quantity", input.Quantity),
		zap.Int("available", lvl.AvailableQuantity),
	)
	return txn, nil
}

func (uc *ledgerUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.StockTransaction, error) {
	if input.NewAvailableQuantity < 0 {
		return nil, fmt.Errorf("%w: adjusted quantity must not be negative, got %d", model.ErrInvalidQuantity, input.NewAvailableQuantity)
	}

	release, err := uc.lockVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer release()

	lvl, err := uc.currentLevel(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	availableBefore := lvl.AvailableQuantity
	lvl.AvailableQuantity = input.NewAvailableQuantity
	lvl.UpdatedAt = now
	lvl.UpdatedBy = input.Actor
	if input.MarkCounted {
		lvl.LastCountedAt = &now
	}

	// A zero-change adjustment is still recorded: "confirmed no change"
	// is what the audit accuracy statistics are built on.
	txn := &model.StockTransaction{
		ID:              uuid.New().String(),
		VariantID:       input.VariantID,
		Type:            model.TransactionAdjustment,
		QuantityChange:  input.NewAvailableQuantity - availableBefore,
		AvailableBefore: availableBefore,
		AvailableAfter:  lvl.AvailableQuantity,
		ReservedBefore:  lvl.ReservedQuantity,
		ReservedAfter:   lvl.ReservedQuantity,
		Reason:          input.Reason,
		ReferenceType:   optional(input.ReferenceType),
		ReferenceID:     optional(input.ReferenceID),
		CreatedBy:       input.Actor,
		CreatedAt:       now,
	}

	if err := uc.repo.ApplyChange(ctx, lvl, txn); err != nil {
		return nil, err
	}
	uc.indexLevel(ctx, lvl, "", "")

	uc.logger.Info("stock adjusted",
		zap.String("variant_id", input.VariantID),
		zap.Int("change", txn.QuantityChange),
		zap.Int("available", lvl.AvailableQuantity),
	)
	return txn, nil
}

func (uc *ledgerUseCase) GetCurrentStock(ctx context.Context, variantID string) (*model.StockLevel, error) {
	lvl, err := uc.repo.GetStockLevel(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if lvl == nil {
		return &model.StockLevel{VariantID: variantID}, nil
	}
	return lvl, nil
}

func (uc *ledgerUseCase) GetStockHistory(ctx context.Context, filters *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	return uc.repo.ListTransactions(ctx, filters)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orderReference(referenceID string) *string {
	if referenceID == "" {
		return nil
	}
	ref := model.ReferenceTypeOrder
	return &ref
}
