package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/retailcore/inventory-service/internal/audit"
	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/ledger"
	ledgerdto "github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

const reconciliationReason = "physical count reconciliation"

type auditUseCase struct {
	repo      audit.Repository
	ledgerUC  ledger.UseCase
	logger    logger.ZapLogger
	staleDays int
}

func NewAuditUseCase(repo audit.Repository, ledgerUC ledger.UseCase, log logger.ZapLogger, staleDays int) audit.UseCase {
	return &auditUseCase{
		repo:      repo,
		ledgerUC:  ledgerUC,
		logger:    log,
		staleDays: staleDays,
	}
}

func (uc *auditUseCase) PerformAudit(ctx context.Context, input *dto.PerformAuditInput) (*dto.AuditResult, error) {
	if input.ActualQuantity < 0 {
		return nil, fmt.Errorf("%w: counted quantity must not be negative, got %d", model.ErrInvalidQuantity, input.ActualQuantity)
	}

	reason := reconciliationReason
	if input.Notes != "" {
		reason = reason + ": " + input.Notes
	}

	// The adjust path writes the entry even when the count matches; a
	// confirmed no-change is what makes the accuracy rate meaningful.
	txn, err := uc.ledgerUC.AdjustStock(ctx, &ledgerdto.AdjustStockInput{
		VariantID:            input.VariantID,
		NewAvailableQuantity: input.ActualQuantity,
		Reason:               reason,
		ReferenceType:        model.ReferenceTypeAudit,
		MarkCounted:          true,
		Actor:                input.Auditor,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("audit performed",
		zap.String("variant_id", input.VariantID),
		zap.String("auditor", input.Auditor),
		zap.Int("expected", txn.AvailableBefore),
		zap.Int("actual", txn.AvailableAfter),
		zap.Int("difference", txn.QuantityChange),
	)

	return &dto.AuditResult{
		VariantID:        input.VariantID,
		ExpectedQuantity: txn.AvailableBefore,
		ActualQuantity:   txn.AvailableAfter,
		Difference:       txn.QuantityChange,
		Auditor:          input.Auditor,
		CountedAt:        txn.CreatedAt,
		TransactionID:    txn.ID,
	}, nil
}

func (uc *auditUseCase) GetAuditHistory(ctx context.Context, filters *dto.AuditHistoryFilters) ([]model.StockTransaction, int, error) {
	return uc.repo.ListAdjustments(ctx, filters)
}

func (uc *auditUseCase) GetAuditStats(ctx context.Context, filters *dto.AuditHistoryFilters) (*dto.AuditStats, error) {
	// Stats aggregate the full range, so pagination is disabled here.
	unpaged := *filters
	unpaged.Page = 0
	unpaged.PageSize = 0

	entries, _, err := uc.repo.ListAdjustments(ctx, &unpaged)
	if err != nil {
		return nil, err
	}

	stats := audit.CalculateAuditStats(entries)
	return &stats, nil
}

func (uc *auditUseCase) GetStocksForAudit(ctx context.Context, filters *dto.AuditDueFilters) ([]model.StockLevel, int, error) {
	staleDays := uc.staleDays
	if filters.StaleDays > 0 {
		staleDays = filters.StaleDays
	}
	cutoff := time.Now().AddDate(0, 0, -staleDays)

	return uc.repo.ListStaleLevels(ctx, cutoff, filters.Page, filters.PageSize)
}
