package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/retailcore/inventory-service/internal/pkg/httpres"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/query"
	"github.com/retailcore/inventory-service/internal/query/dto"
	"go.uber.org/zap"
)

type QueryHandler struct {
	uc     query.UseCase
	logger logger.ZapLogger
}

func NewQueryHandler(uc query.UseCase, log logger.ZapLogger) *QueryHandler {
	return &QueryHandler{uc: uc, logger: log}
}

func (h *QueryHandler) Register(router fiber.Router) {
	reports := router.Group("/reports")
	reports.Get("/overview", h.GetStockOverview)
	reports.Get("/status", h.ListByStatus)
	reports.Get("/value-by-supplier", h.ValueBySupplier)
	reports.Get("/search", h.SearchStock)
}

func (h *QueryHandler) GetStockOverview(c *fiber.Ctx) error {
	overview, err := h.uc.GetStockOverview(c.Context())
	if err != nil {
		h.logger.Error("stock overview failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock overview", overview)
}

func (h *QueryHandler) ListByStatus(c *fiber.Ctx) error {
	items, total, err := h.uc.ListByStatus(c.Context(), &dto.StatusFilters{
		Status:            c.Query("status"),
		LowStockThreshold: c.QueryInt("threshold", 0),
		Page:              c.QueryInt("page", 1),
		PageSize:          c.QueryInt("page_size", 50),
	})
	if err != nil {
		h.logger.Error("list by status failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock by status", fiber.Map{
		"items": items,
		"total": total,
	})
}

func (h *QueryHandler) ValueBySupplier(c *fiber.Ctx) error {
	items, err := h.uc.ValueBySupplier(c.Context())
	if err != nil {
		h.logger.Error("value by supplier failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock value by supplier", items)
}

func (h *QueryHandler) SearchStock(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return httpres.BadRequest(c, "q is required")
	}

	items, total, err := h.uc.SearchStock(c.Context(), q, c.QueryInt("page", 1), c.QueryInt("page_size", 50))
	if err != nil {
		h.logger.Error("stock search failed", zap.Error(err))
		return httpres.Error(c, err)
	}
	return httpres.Success(c, "stock search", fiber.Map{
		"items": items,
		"total": total,
	})
}
