package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/retailcore/inventory-service/internal/ledger"
	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/broker"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

// OrderListener consumes order-workflow events and turns them into
// reserve/release calls on the ledger. Business-rule rejections are
// terminal for the event: the order service observes the missing
// reservation and fails the order line on its side.
type OrderListener struct {
	consumer *broker.KafkaConsumer
	uc       ledger.UseCase
	logger   logger.ZapLogger
}

func NewOrderListener(consumer *broker.KafkaConsumer, uc ledger.UseCase, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

const (
	eventOrderPlaced    = "OrderPlaced"
	eventOrderCancelled = "OrderCancelled"
)

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal order event", zap.Error(err))
		return
	}

	switch event.EventType {
	case eventOrderPlaced:
		l.reserveForOrder(ctx, &event.Payload)
	case eventOrderCancelled:
		l.releaseForOrder(ctx, &event.Payload)
	}
}

func (l *OrderListener) reserveForOrder(ctx context.Context, order *OrderPayload) {
	l.logger.Info("Reserving stock for order", zap.String("order_id", order.ID))

	for _, item := range order.Items {
		_, err := l.uc.ReserveStock(ctx, &dto.ReserveStockInput{
			VariantID:   item.VariantID,
			Quantity:    item.Quantity,
			Reason:      "order placed",
			ReferenceID: order.ID,
			Actor:       "order-service",
		})
		if err != nil {
			if errors.Is(err, model.ErrInsufficientStock) || errors.Is(err, model.ErrInvalidQuantity) {
				// Expected business outcome, not retried
				l.logger.Warn("Cannot reserve stock for order line",
					zap.String("order_id", order.ID),
					zap.String("variant_id", item.VariantID),
					zap.Error(err),
				)
				continue
			}
			l.logger.Error("Failed to reserve stock for order line",
				zap.String("order_id", order.ID),
				zap.String("variant_id", item.VariantID),
				zap.Error(err),
			)
		}
	}
}

func (l *OrderListener) releaseForOrder(ctx context.Context, order *OrderPayload) {
	l.logger.Info("Releasing stock for cancelled order", zap.String("order_id", order.ID))

	for _, item := range order.Items {
		_, err := l.uc.ReleaseStock(ctx, &dto.ReleaseStockInput{
			VariantID:   item.VariantID,
			Quantity:    item.Quantity,
			Reason:      "order cancelled",
			ReferenceID: order.ID,
			Actor:       "order-service",
		})
		if err != nil {
			if errors.Is(err, model.ErrInsufficientReservedStock) || errors.Is(err, model.ErrInvalidQuantity) {
				l.logger.Warn("Cannot release stock for order line",
					zap.String("order_id", order.ID),
					zap.String("variant_id", item.VariantID),
					zap.Error(err),
				)
				continue
			}
			l.logger.Error("Failed to release stock for order line",
				zap.String("order_id", order.ID),
				zap.String("variant_id", item.VariantID),
				zap.Error(err),
			)
		}
	}
}
