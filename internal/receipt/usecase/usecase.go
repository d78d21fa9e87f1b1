package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailcore/inventory-service/internal/ledger"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/receipt"
	"github.com/retailcore/inventory-service/internal/receipt/dto"
	"go.uber.org/zap"
)

type receiptUseCase struct {
	repo       receipt.Repository
	ledgerRepo ledger.Repository
	locker     ledger.Locker
	logger     logger.ZapLogger
	lockTTL    time.Duration
}

func NewReceiptUseCase(repo receipt.Repository, ledgerRepo ledger.Repository, locker ledger.Locker, log logger.ZapLogger, lockTTL time.Duration) receipt.UseCase {
	return &receiptUseCase{
		repo:       repo,
		ledgerRepo: ledgerRepo,
		locker:     locker,
		logger:     log,
		lockTTL:    lockTTL,
	}
}

func (uc *receiptUseCase) CreateReceipt(ctx context.Context, input *dto.CreateReceiptInput) (*model.StockReceipt, error) {
	if input.QuantityReceived <= 0 {
		return nil, fmt.Errorf("%w: received quantity must be positive, got %d", model.ErrInvalidQuantity, input.QuantityReceived)
	}
	if input.UnitCost < 0 {
		return nil, fmt.Errorf("%w: unit cost must not be negative", model.ErrInvalidQuantity)
	}

	entryDate := time.Now()
	if input.EntryDate != nil {
		entryDate = *input.EntryDate
	}

	r := &model.StockReceipt{
		ID:               uuid.New().String(),
		VariantID:        input.VariantID,
		SupplierID:       input.SupplierID,
		QuantityReceived: input.QuantityReceived,
		UnitCost:         input.UnitCost,
		BatchNumber:      input.BatchNumber,
		Notes:            input.Notes,
		EntryDate:        entryDate,
		ReceivedBy:       input.ReceivedBy,
		IsProcessed:      false,
	}

	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.logger.Info("receipt drafted",
		zap.String("receipt_id", r.ID),
		zap.String("variant_id", r.VariantID),
		zap.Int("quantity", r.QuantityReceived),
	)
	return r, nil
}

func (uc *receiptUseCase) ProcessReceipt(ctx context.Context, receiptID, actor string) (*model.StockReceipt, error) {
	r, err := uc.repo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if r.IsProcessed {
		return nil, fmt.Errorf("%w: receipt %s", model.ErrReceiptAlreadyProcessed, receiptID)
	}

	lockKey := "lock:stock:" + r.VariantID
	lockValue := uuid.New().String()
	ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, uc.lockTTL)
	if err != nil {
		uc.logger.Error("failed to acquire stock lock", zap.String("variant_id", r.VariantID), zap.Error(err))
	}
	if !ok {
		return nil, model.ErrLockNotAcquired
	}
	defer func() {
		if err := uc.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release stock lock", zap.String("variant_id", r.VariantID), zap.Error(err))
		}
	}()

	lvl, err := uc.ledgerRepo.GetStockLevel(ctx, r.VariantID)
	if err != nil {
		return nil, err
	}
	if lvl == nil {
		lvl = &model.StockLevel{VariantID: r.VariantID}
	}

	now := time.Now()
	availableBefore := lvl.AvailableQuantity
	lvl.AvailableQuantity += r.QuantityReceived
	lvl.UpdatedAt = now
	lvl.UpdatedBy = actor

	r.IsProcessed = true
	r.ProcessedAt = &now
	r.ProcessedBy = &actor

	refType := model.ReferenceTypeReceipt
	txn := &model.StockTransaction{
		ID:              uuid.New().String(),
		VariantID:       r.VariantID,
		Type:            model.TransactionStockIn,
		QuantityChange:  r.QuantityReceived,
		AvailableBefore: availableBefore,
		AvailableAfter:  lvl.AvailableQuantity,
		ReservedBefore:  lvl.ReservedQuantity,
		ReservedAfter:   lvl.ReservedQuantity,
		Reason:          fmt.Sprintf("receipt %s processed, supplier %s", r.ID, r.SupplierID),
		ReferenceType:   &refType,
		ReferenceID:     &r.ID,
		CreatedBy:       actor,
		CreatedAt:       now,
	}

	if err := uc.repo.Process(ctx, r, lvl, txn); err != nil {
		return nil, err
	}

	uc.logger.Info("receipt processed",
		zap.String("receipt_id", r.ID),
		zap.String("variant_id", r.VariantID),
		zap.Int("quantity", r.QuantityReceived),
		zap.Int("available", lvl.AvailableQuantity),
	)
	return r, nil
}

func (uc *receiptUseCase) UpdateReceipt(ctx context.Context, input *dto.UpdateReceiptInput) (*model.StockReceipt, error) {
	if input.QuantityReceived <= 0 {
		return nil, fmt.Errorf("%w: received quantity must be positive, got %d", model.ErrInvalidQuantity, input.QuantityReceived)
	}
	if input.UnitCost < 0 {
		return nil, fmt.Errorf("%w: unit cost must not be negative", model.ErrInvalidQuantity)
	}

	r, err := uc.repo.GetByID(ctx, input.ReceiptID)
	if err != nil {
		return nil, err
	}
	if r.IsProcessed {
		return nil, fmt.Errorf("%w: receipt %s", model.ErrReceiptAlreadyProcessed, input.ReceiptID)
	}

	r.QuantityReceived = input.QuantityReceived
	r.UnitCost = input.UnitCost
	r.BatchNumber = input.BatchNumber
	r.Notes = input.Notes

	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *receiptUseCase) DeleteReceipt(ctx context.Context, receiptID string) error {
	return uc.repo.Delete(ctx, receiptID)
}

func (uc *receiptUseCase) GetReceipt(ctx context.Context, receiptID string) (*model.StockReceipt, error) {
	return uc.repo.GetByID(ctx, receiptID)
}

func (uc *receiptUseCase) ListReceipts(ctx context.Context, filters *dto.ReceiptFilters) ([]model.StockReceipt, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
