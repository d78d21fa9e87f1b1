package usecase

import (
	"context"
	"testing"

	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/pkg/logger"
	"github.com/retailcore/inventory-service/internal/query"
	"github.com/retailcore/inventory-service/internal/query/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueryRepo struct {
	overview      *dto.StockOverview
	levels        []model.StockLevel
	supplierValue []dto.SupplierValue

	lastThreshold     int
	lastStatusFilters *dto.StatusFilters
	lastPattern       string
	searchCalled      bool
}

func (r *fakeQueryRepo) Overview(_ context.Context, lowStockThreshold int) (*dto.StockOverview, error) {
	r.lastThreshold = lowStockThreshold
	return r.overview, nil
}

func (r *fakeQueryRepo) ListByStatus(_ context.Context, filters *dto.StatusFilters) ([]model.StockLevel, int, error) {
	r.lastStatusFilters = filters
	return r.levels, len(r.levels), nil
}

func (r *fakeQueryRepo) ValueBySupplier(context.Context) ([]dto.SupplierValue, error) {
	return r.supplierValue, nil
}

func (r *fakeQueryRepo) SearchByPattern(_ context.Context, pattern string, _, _ int) ([]model.StockLevel, int, error) {
	r.searchCalled = true
	r.lastPattern = pattern
	return r.levels, len(r.levels), nil
}

func (r *fakeQueryRepo) GetByVariantIDs(context.Context, []string) ([]model.StockLevel, error) {
	return r.levels, nil
}

var _ query.Repository = (*fakeQueryRepo)(nil)

func TestGetStockOverviewUsesConfiguredThreshold(t *testing.T) {
	repo := &fakeQueryRepo{overview: &dto.StockOverview{VariantCount: 3, TotalAvailable: 42, LowStockCount: 1}}
	uc := NewQueryUseCase(repo, nil, logger.NewNop(), 10)

	overview, err := uc.GetStockOverview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastThreshold)
	assert.Equal(t, 42, overview.TotalAvailable)
}

func TestListByStatusDefaultsThreshold(t *testing.T) {
	repo := &fakeQueryRepo{}
	uc := NewQueryUseCase(repo, nil, logger.NewNop(), 10)

	_, _, err := uc.ListByStatus(context.Background(), &dto.StatusFilters{Status: dto.StatusLowStock})

	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastStatusFilters.LowStockThreshold)
}

func TestListByStatusKeepsExplicitThreshold(t *testing.T) {
	repo := &fakeQueryRepo{}
	uc := NewQueryUseCase(repo, nil, logger.NewNop(), 10)

	_, _, err := uc.ListByStatus(context.Background(), &dto.StatusFilters{Status: dto.StatusLowStock, LowStockThreshold: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, repo.lastStatusFilters.LowStockThreshold)
}

func TestSearchFallsBackToSQLWithoutIndex(t *testing.T) {
	repo := &fakeQueryRepo{levels: []model.StockLevel{{VariantID: "variant-a"}}}
	uc := NewQueryUseCase(repo, nil, logger.NewNop(), 10)

	levels, total, err := uc.SearchStock(context.Background(), "batch-42", 1, 20)

	require.NoError(t, err)
	assert.True(t, repo.searchCalled)
	assert.Equal(t, "batch-42", repo.lastPattern)
	assert.Equal(t, 1, total)
	assert.Equal(t, "variant-a", levels[0].VariantID)
}

func TestValueBySupplierPassthrough(t *testing.T) {
	repo := &fakeQueryRepo{supplierValue: []dto.SupplierValue{
		{SupplierID: "sup-1", VariantCount: 2, TotalValue: 120.5},
	}}
	uc := NewQueryUseCase(repo, nil, logger.NewNop(), 10)

	values, err := uc.ValueBySupplier(context.Background())

	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.InDelta(t, 120.5, values[0].TotalValue, 0.001)
}
