package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/retailcore/inventory-service/internal/auth"
	"github.com/retailcore/inventory-service/internal/pkg/httpres"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/receipt"
	"github.com/retailcore/inventory-service/internal/receipt/dto"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	uc     receipt.UseCase
	logger logger.ZapLogger
}

func NewReceiptHandler(uc receipt.UseCase, log logger.ZapLogger) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, logger: log}
}

func (h *ReceiptHandler) Register(router fiber.Router) {
	receipts := router.Group("/receipts")
	receipts.Post("/", h.CreateReceipt)
	receipts.Get("/", h.ListReceipts)
	receipts.Get("/:id", h.GetReceipt)
	receipts.Put("/:id", h.UpdateReceipt)
	receipts.Delete("/:id", h.DeleteReceipt)
	receipts.Post("/:id/process", h.ProcessReceipt)
}

type createReceiptRequest struct {
	VariantID        string     `json:"variant_id"`
	SupplierID       string     `json:"supplier_id"`
	QuantityReceived int        `json:"quantity_received"`
	UnitCost         float64    `json:"unit_cost"`
	BatchNumber      string     `json:"batch_number"`
	Notes            string     `json:"notes"`
	EntryDate        *time.Time `json:"entry_date"`
}

type updateReceiptRequest struct {
	QuantityReceived int     `json:"quantity_received"`
	UnitCost         float64 `json:"unit_cost"`
	BatchNumber      string  `json:"batch_number"`
	Notes            string  `json:"notes"`
}

func (h *ReceiptHandler) CreateReceipt(c *fiber.Ctx) error {
	var req createReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	r, err := h.uc.CreateReceipt(c.Context(), &dto.CreateReceiptInput{
		VariantID:        req.VariantID,
		SupplierID:       req.SupplierID,
		QuantityReceived: req.QuantityReceived,
		UnitCost:         req.UnitCost,
		BatchNumber:      req.BatchNumber,
		Notes:            req.Notes,
		EntryDate:        req.EntryDate,
		ReceivedBy:       auth.Actor(c),
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Created(c, "receipt created", r)
}

func (h *ReceiptHandler) ListReceipts(c *fiber.Ctx) error {
	filters := &dto.ReceiptFilters{
		VariantID:  c.Query("variant_id"),
		SupplierID: c.Query("supplier_id"),
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 50),
	}
	if processed := c.Query("processed"); processed != "" {
		v := processed == "true"
		filters.Processed = &v
	}

	items, total, err := h.uc.ListReceipts(c.Context(), filters)
	if err != nil {
		h.logger.Error("list receipts failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "receipts", fiber.Map{
		"items": items,
		"total": total,
	})
}

func (h *ReceiptHandler) GetReceipt(c *fiber.Ctx) error {
	r, err := h.uc.GetReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "receipt", r)
}

func (h *ReceiptHandler) UpdateReceipt(c *fiber.Ctx) error {
	var req updateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	r, err := h.uc.UpdateReceipt(c.Context(), &dto.UpdateReceiptInput{
		ReceiptID:        c.Params("id"),
		QuantityReceived: req.QuantityReceived,
		UnitCost:         req.UnitCost,
		BatchNumber:      req.BatchNumber,
		Notes:            req.Notes,
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "receipt updated", r)
}

func (h *ReceiptHandler) DeleteReceipt(c *fiber.Ctx) error {
	if err := h.uc.DeleteReceipt(c.Context(), c.Params("id")); err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "receipt deleted", nil)
}

func (h *ReceiptHandler) ProcessReceipt(c *fiber.Ctx) error {
	r, err := h.uc.ProcessReceipt(c.Context(), c.Params("id"), auth.Actor(c))
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "receipt processed", r)
}
