package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/retailcore/inventory-service/internal/audit"
	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/auth"
	"github.com/retailcore/inventory-service/internal/pkg/httpres"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type AuditHandler struct {
	uc     audit.UseCase
	logger logger.ZapLogger
}

func NewAuditHandler(uc audit.UseCase, log logger.ZapLogger) *AuditHandler {
	return &AuditHandler{uc: uc, logger: log}
}

func (h *AuditHandler) Register(router fiber.Router) {
	audits := router.Group("/audits")
	audits.Post("/", h.PerformAudit)
	audits.Get("/history", h.GetAuditHistory)
	audits.Get("/stats", h.GetAuditStats)
	audits.Get("/due", h.GetStocksForAudit)
}

type performAuditRequest struct {
	VariantID      string `json:"variant_id"`
	ActualQuantity int    `json:"actual_quantity"`
	Notes          string `json:"notes"`
}

func (h *AuditHandler) PerformAudit(c *fiber.Ctx) error {
	var req performAuditRequest
	if err := c.BodyParser(&req); err != nil {
		return httpres.BadRequest(c, "invalid request body")
	}

	result, err := h.uc.PerformAudit(c.Context(), &dto.PerformAuditInput{
		VariantID:      req.VariantID,
		ActualQuantity: req.ActualQuantity,
		Auditor:        auth.Actor(c),
		Notes:          req.Notes,
	})
	if err != nil {
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "audit recorded", result)
}

func (h *AuditHandler) historyFilters(c *fiber.Ctx) (*dto.AuditHistoryFilters, error) {
	filters := &dto.AuditHistoryFilters{
		VariantID: c.Query("variant_id"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 50),
	}
	if start := c.Query("start"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, err
		}
		filters.StartDate = &t
	}
	if end := c.Query("end"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, err
		}
		filters.EndDate = &t
	}
	return filters, nil
}

func (h *AuditHandler) GetAuditHistory(c *fiber.Ctx) error {
	filters, err := h.historyFilters(c)
	if err != nil {
		return httpres.BadRequest(c, "start and end must be RFC3339")
	}

	entries, total, err := h.uc.GetAuditHistory(c.Context(), filters)
	if err != nil {
		h.logger.Error("get audit history failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "audit history", fiber.Map{
		"items": entries,
		"total": total,
	})
}

func (h *AuditHandler) GetAuditStats(c *fiber.Ctx) error {
	filters, err := h.historyFilters(c)
	if err != nil {
		return httpres.BadRequest(c, "start and end must be RFC3339")
	}

	stats, err := h.uc.GetAuditStats(c.Context(), filters)
	if err != nil {
		h.logger.Error("get audit stats failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "audit stats", stats)
}

func (h *AuditHandler) GetStocksForAudit(c *fiber.Ctx) error {
	levels, total, err := h.uc.GetStocksForAudit(c.Context(), &dto.AuditDueFilters{
		StaleDays: c.QueryInt("stale_days", 0),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 50),
	})
	if err != nil {
		h.logger.Error("get stocks for audit failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stocks due for audit", fiber.Map{
		"items": levels,
		"total": total,
	})
}
