package usecase

import (
	"context"

	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/pkg/search"
	"github.com/retailcore/inventory-service/internal/query"
	"github.com/retailcore/inventory-service/internal/query/dto"
	"go.uber.org/zap"
)

type queryUseCase struct {
	repo              query.Repository
	es                *search.Client // nil when search is not configured
	logger            logger.ZapLogger
	lowStockThreshold int
}

func NewQueryUseCase(repo query.Repository, es *search.Client, log logger.ZapLogger, lowStockThreshold int) query.UseCase {
	return &queryUseCase{
		repo:              repo,
		es:                es,
		logger:            log,
		lowStockThreshold: lowStockThreshold,
	}
}

func (uc *queryUseCase) GetStockOverview(ctx context.Context) (*dto.StockOverview, error) {
	return uc.repo.Overview(ctx, uc.lowStockThreshold)
}

func (uc *queryUseCase) ListByStatus(ctx context.Context, filters *dto.StatusFilters) ([]model.StockLevel, int, error) {
	if filters.LowStockThreshold <= 0 {
		filters.LowStockThreshold = uc.lowStockThreshold
	}
	return uc.repo.ListByStatus(ctx, filters)
}

func (uc *queryUseCase) ValueBySupplier(ctx context.Context) ([]dto.SupplierValue, error) {
	return uc.repo.ValueBySupplier(ctx)
}

func (uc *queryUseCase) SearchStock(ctx context.Context, q string, page, pageSize int) ([]model.StockLevel, int, error) {
	if uc.es == nil {
		return uc.repo.SearchByPattern(ctx, q, page, pageSize)
	}

	size := pageSize
	if size <= 0 {
		size = 50
	}
	ids, err := uc.es.SearchStock(ctx, q, size)
	if err != nil {
		// Search index failures degrade to SQL rather than failing the view
		uc.logger.Warn("search index unavailable, falling back to sql", zap.Error(err))
		return uc.repo.SearchByPattern(ctx, q, page, pageSize)
	}

	levels, err := uc.repo.GetByVariantIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return levels, len(levels), nil
}
