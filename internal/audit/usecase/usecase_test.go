package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/ledger"
	ledgerdto "github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger records adjust calls against an in-memory available count.
type fakeLedger struct {
	available map[string]int
	counted   map[string]bool
	calls     []ledgerdto.AdjustStockInput
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{available: make(map[string]int), counted: make(map[string]bool)}
}

func (f *fakeLedger) AdjustStock(_ context.Context, input *ledgerdto.AdjustStockInput) (*model.StockTransaction, error) {
	if input.NewAvailableQuantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	before := f.available[input.VariantID]
	f.available[input.VariantID] = input.NewAvailableQuantity
	if input.MarkCounted {
		f.counted[input.VariantID] = true
	}
	f.calls = append(f.calls, *input)
	return &model.StockTransaction{
		ID:              "txn-1",
		VariantID:       input.VariantID,
		Type:            model.TransactionAdjustment,
		QuantityChange:  input.NewAvailableQuantity - before,
		AvailableBefore: before,
		AvailableAfter:  input.NewAvailableQuantity,
		Reason:          input.Reason,
		CreatedBy:       input.Actor,
		CreatedAt:       time.Now(),
	}, nil
}

func (f *fakeLedger) AddStock(context.Context, *ledgerdto.AddStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (f *fakeLedger) ReserveStock(context.Context, *ledgerdto.ReserveStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (f *fakeLedger) ReleaseStock(context.Context, *ledgerdto.ReleaseStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (f *fakeLedger) RemoveStock(context.Context, *ledgerdto.RemoveStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (f *fakeLedger) GetCurrentStock(_ context.Context, variantID string) (*model.StockLevel, error) {
	return &model.StockLevel{VariantID: variantID, AvailableQuantity: f.available[variantID]}, nil
}
func (f *fakeLedger) GetStockHistory(context.Context, *ledgerdto.TransactionFilters) ([]model.StockTransaction, int, error) {
	panic("not used")
}

var _ ledger.UseCase = (*fakeLedger)(nil)

type fakeAuditRepo struct {
	adjustments []model.StockTransaction
	stale       []model.StockLevel
	lastCutoff  time.Time
}

func (f *fakeAuditRepo) ListAdjustments(_ context.Context, _ *dto.AuditHistoryFilters) ([]model.StockTransaction, int, error) {
	return f.adjustments, len(f.adjustments), nil
}

func (f *fakeAuditRepo) ListStaleLevels(_ context.Context, cutoff time.Time, _, _ int) ([]model.StockLevel, int, error) {
	f.lastCutoff = cutoff
	return f.stale, len(f.stale), nil
}

func TestPerformAuditRecordsShrinkage(t *testing.T) {
	led := newFakeLedger()
	led.available["variant-x"] = 50
	uc := NewAuditUseCase(&fakeAuditRepo{}, led, logger.NewNop(), 90)

	result, err := uc.PerformAudit(context.Background(), &dto.PerformAuditInput{
		VariantID:      "variant-x",
		ActualQuantity: 48,
		Auditor:        "staff1",
		Notes:          "shrinkage",
	})
	require.NoError(t, err)

	assert.Equal(t, 50, result.ExpectedQuantity)
	assert.Equal(t, 48, result.ActualQuantity)
	assert.Equal(t, -2, result.Difference)
	assert.Equal(t, "staff1", result.Auditor)

	require.Len(t, led.calls, 1)
	call := led.calls[0]
	assert.Equal(t, 48, call.NewAvailableQuantity)
	assert.Equal(t, model.ReferenceTypeAudit, call.ReferenceType)
	assert.True(t, call.MarkCounted)
	assert.Contains(t, call.Reason, "physical count reconciliation")
	assert.Contains(t, call.Reason, "shrinkage")
}

func TestPerformAuditConfirmedCountStillAdjusts(t *testing.T) {
	led := newFakeLedger()
	led.available["variant-x"] = 12
	uc := NewAuditUseCase(&fakeAuditRepo{}, led, logger.NewNop(), 90)

	result, err := uc.PerformAudit(context.Background(), &dto.PerformAuditInput{
		VariantID:      "variant-x",
		ActualQuantity: 12,
		Auditor:        "staff1",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Difference)
	assert.Len(t, led.calls, 1, "zero-change audits still go through the adjust path")
}

func TestPerformAuditRejectsNegativeCount(t *testing.T) {
	uc := NewAuditUseCase(&fakeAuditRepo{}, newFakeLedger(), logger.NewNop(), 90)

	_, err := uc.PerformAudit(context.Background(), &dto.PerformAuditInput{
		VariantID:      "variant-x",
		ActualQuantity: -1,
		Auditor:        "staff1",
	})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestGetAuditStatsAggregatesAdjustments(t *testing.T) {
	repo := &fakeAuditRepo{
		adjustments: []model.StockTransaction{
			{Type: model.TransactionAdjustment, QuantityChange: 0},
			{Type: model.TransactionAdjustment, QuantityChange: 0},
			{Type: model.TransactionAdjustment, QuantityChange: 4},
		},
	}
	uc := NewAuditUseCase(repo, newFakeLedger(), logger.NewNop(), 90)

	stats, err := uc.GetAuditStats(context.Background(), &dto.AuditHistoryFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAudited)
	assert.Equal(t, 2, stats.CorrectCount)
	assert.Equal(t, 1, stats.OverCount)
	assert.InDelta(t, 66.67, stats.AccuracyRate, 0.01)
}

func TestGetStocksForAuditUsesConfiguredWindow(t *testing.T) {
	repo := &fakeAuditRepo{stale: []model.StockLevel{{VariantID: "variant-x"}}}
	uc := NewAuditUseCase(repo, newFakeLedger(), logger.NewNop(), 90)

	levels, total, err := uc.GetStocksForAudit(context.Background(), &dto.AuditDueFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, levels, 1)

	wantCutoff := time.Now().AddDate(0, 0, -90)
	assert.WithinDuration(t, wantCutoff, repo.lastCutoff, time.Minute)

	_, _, err = uc.GetStocksForAudit(context.Background(), &dto.AuditDueFilters{StaleDays: 7})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), repo.lastCutoff, time.Minute)
}
