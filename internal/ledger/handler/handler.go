package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/retailcore/inventory-service/internal/auth"
	"github.com/retailcore/inventory-service/internal/ledger"
	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/pkg/httpres"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger logger.ZapLogger
}

func NewLedgerHandler(uc ledger.UseCase, log logger.ZapLogger) *LedgerHandler {
	return &LedgerHandler{uc: uc, logger: log}
}

func (h *LedgerHandler) Register(router fiber.Router) {
	stock := router.Group("/stock")
	stock.Get("/:variantId", h.GetCurrentStock)
	stock.Get("/:variantId/history", h.GetStockHistory)
	stock.Post("/add", h.AddStock)
	stock.Post("/reserve", h.ReserveStock)
	stock.Post("/release", h.ReleaseStock)
	stock.Post("/remove", h.RemoveStock)
	stock.Post("/adjust", h.AdjustStock)
}

type addStockRequest struct {
	VariantID   string  `json:"variant_id"`
	Quantity    int     `json:"quantity"`
	SupplierID  string  `json:"supplier_id"`
	UnitCost    float64 `json:"unit_cost"`
	BatchNumber string  `json:"batch_number"`
	Notes       string  `json:"notes"`
}

type moveStockRequest struct {
	VariantID   string `json:"variant_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"reference_id"`
}

type adjustStockRequest struct {
	VariantID            string `json:"variant_id"`
	NewAvailableQuantity int    `json:"new_available_quantity"`
	Reason               string `json:"reason"`
}

func (h *LedgerHandler) GetCurrentStock(c *fiber.Ctx) error {
	lvl, err := h.uc.GetCurrentStock(c.Context(), c.Params("variantId"))
	if err != nil {
		h.logger.Error("get current stock failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "current stock", lvl)
}

func (h *LedgerHandler) GetStockHistory(c *fiber.Ctx) error {
	filters := &dto.TransactionFilters{
		VariantID: c.Params("variantId"),
		Type:      c.Query("type"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 50),
	}
	if start := c.Query("start"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return httpres.BadRequest(c, "start must be RFC3339")
		}
		filters.StartDate = &t
	}
	if end := c.Query("end"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return httpres.BadRequest(c, "end must be RFC3339")
		}
		filters.EndDate = &t
	}

	entries, total, err := h.uc.GetStockHistory(c.Context(), filters)
	if err != nil {
		h.logger.Error("get stock history failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock history", fiber.Map{
		"items": entries,
		"total": total,
	})
}

func (h *LedgerHandler) AddStock(c *fiber.Ctx) error {
	var req addStockRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	txn, err := h.uc.AddStock(c.Context(), &dto.AddStockInput{
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
		SupplierID:  req.SupplierID,
		UnitCost:    req.UnitCost,
		BatchNumber: req.BatchNumber,
		Notes:       req.Notes,
		Actor:       auth.Actor(c),
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Created(c, "stock added", txn)
}

func (h *LedgerHandler) ReserveStock(c *fiber.Ctx) error {
	var req moveStockRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	txn, err := h.uc.ReserveStock(c.Context(), &dto.ReserveStockInput{
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		ReferenceID: req.ReferenceID,
		Actor:       auth.Actor(c),
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock reserved", txn)
}

func (h *LedgerHandler) ReleaseStock(c *fiber.Ctx) error {
	var req moveStockRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	txn, err := h.uc.ReleaseStock(c.Context(), &dto.ReleaseStockInput{
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		ReferenceID: req.ReferenceID,
		Actor:       auth.Actor(c),
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock released", txn)
}

func (h *LedgerHandler) RemoveStock(c *fiber.Ctx) error {
	var req moveStockRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	txn, err := h.uc.RemoveStock(c.Context(), &dto.RemoveStockInput{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Actor:     auth.Actor(c),
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock removed", txn)
}

func (h *LedgerHandler) AdjustStock(c *fiber.Ctx) error {
	var req adjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	txn, err := h.uc.AdjustStock(c.Context(), &dto.AdjustStockInput{
		VariantID:            req.VariantID,
		NewAvailableQuantity: req.NewAvailableQuantity,
		Reason:               req.Reason,
		Actor:                auth.Actor(c),
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock adjusted", txn)
}
