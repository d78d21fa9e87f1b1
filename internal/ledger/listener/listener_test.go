package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/retailcore/inventory-service/internal/ledger"
	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUseCase struct {
	available map[string]int
	reserved  map[string]int
	reserves  []dto.ReserveStockInput
	releases  []dto.ReleaseStockInput
}

func newRecordingUseCase() *recordingUseCase {
	return &recordingUseCase{available: make(map[string]int), reserved: make(map[string]int)}
}

func (r *recordingUseCase) ReserveStock(_ context.Context, input *dto.ReserveStockInput) (*model.StockTransaction, error) {
	if r.available[input.VariantID] < input.Quantity {
		return nil, fmt.Errorf("%w: variant %s", model.ErrInsufficientStock, input.VariantID)
	}
	r.available[input.VariantID] -= input.Quantity
	r.reserved[input.VariantID] += input.Quantity
	r.reserves = append(r.reserves, *input)
	return &model.StockTransaction{Type: model.TransactionReserve, CreatedAt: time.Now()}, nil
}

func (r *recordingUseCase) ReleaseStock(_ context.Context, input *dto.ReleaseStockInput) (*model.StockTransaction, error) {
	if r.reserved[input.VariantID] < input.Quantity {
		return nil, fmt.Errorf("%w: variant %s", model.ErrInsufficientReservedStock, input.VariantID)
	}
	r.reserved[input.VariantID] -= input.Quantity
	r.available[input.VariantID] += input.Quantity
	r.releases = append(r.releases, *input)
	return &model.StockTransaction{Type: model.TransactionRelease, CreatedAt: time.Now()}, nil
}

func (r *recordingUseCase) AddStock(context.Context, *dto.AddStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (r *recordingUseCase) RemoveStock(context.Context, *dto.RemoveStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (r *recordingUseCase) AdjustStock(context.Context, *dto.AdjustStockInput) (*model.StockTransaction, error) {
	panic("not used")
}
func (r *recordingUseCase) GetCurrentStock(context.Context, string) (*model.StockLevel, error) {
	panic("not used")
}
func (r *recordingUseCase) GetStockHistory(context.Context, *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	panic("not used")
}

var _ ledger.UseCase = (*recordingUseCase)(nil)

func eventBytes(t *testing.T, eventType, orderID string, items []OrderItemPayload) []byte {
	t.Helper()
	b, err := json.Marshal(OrderEvent{
		EventID:   "evt-1",
		EventType: eventType,
		Payload:   OrderPayload{ID: orderID, Items: items},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return b
}

func TestOrderPlacedReservesEveryLine(t *testing.T) {
	uc := newRecordingUseCase()
	uc.available["variant-a"] = 10
	uc.available["variant-b"] = 5
	l := NewOrderListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), eventBytes(t, eventOrderPlaced, "order-1", []OrderItemPayload{
		{VariantID: "variant-a", Quantity: 2},
		{VariantID: "variant-b", Quantity: 1},
	}))

	require.Len(t, uc.reserves, 2)
	assert.Equal(t, "order-1", uc.reserves[0].ReferenceID)
	assert.Equal(t, 8, uc.available["variant-a"])
	assert.Equal(t, 4, uc.available["variant-b"])
}

func TestOrderPlacedInsufficientLineDoesNotBlockOthers(t *testing.T) {
	uc := newRecordingUseCase()
	uc.available["variant-a"] = 1
	uc.available["variant-b"] = 5
	l := NewOrderListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), eventBytes(t, eventOrderPlaced, "order-2", []OrderItemPayload{
		{VariantID: "variant-a", Quantity: 3},
		{VariantID: "variant-b", Quantity: 2},
	}))

	require.Len(t, uc.reserves, 1)
	assert.Equal(t, "variant-b", uc.reserves[0].VariantID)
	assert.Equal(t, 1, uc.available["variant-a"])
}

func TestOrderCancelledReleasesReservations(t *testing.T) {
	uc := newRecordingUseCase()
	uc.reserved["variant-a"] = 2
	l := NewOrderListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), eventBytes(t, eventOrderCancelled, "order-1", []OrderItemPayload{
		{VariantID: "variant-a", Quantity: 2},
	}))

	require.Len(t, uc.releases, 1)
	assert.Equal(t, 0, uc.reserved["variant-a"])
	assert.Equal(t, 2, uc.available["variant-a"])
}

func TestUnknownEventTypeIsIgnored(t *testing.T) {
	uc := newRecordingUseCase()
	l := NewOrderListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), eventBytes(t, "PaymentCaptured", "order-1", []OrderItemPayload{
		{VariantID: "variant-a", Quantity: 2},
	}))

	assert.Empty(t, uc.reserves)
	assert.Empty(t, uc.releases)
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	uc := newRecordingUseCase()
	l := NewOrderListener(nil, uc, logger.NewNop())

	l.processMessage(context.Background(), []byte("{not json"))

	assert.Empty(t, uc.reserves)
}
