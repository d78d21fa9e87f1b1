package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/query/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// latestCostJoin prices a variant at its most recent processed receipt;
// variants with no processed receipt are valued at zero.
const latestCostJoin = `
    LEFT JOIN LATERAL (
        SELECT supplier_id, unit_cost
        FROM stock_receipts
        WHERE variant_id = sl.variant_id AND is_processed = true
        ORDER BY processed_at DESC NULLS LAST
        LIMIT 1
    ) r ON true
`

func (r *PGRepository) Overview(ctx context.Context, lowStockThreshold int) (*dto.StockOverview, error) {
	var overview dto.StockOverview
	query := `
        SELECT
            count(*) AS variant_count,
            COALESCE(SUM(sl.available_quantity), 0) AS total_available,
            COALESCE(SUM(sl.reserved_quantity), 0) AS total_reserved,
            COALESCE(SUM(sl.available_quantity * COALESCE(r.unit_cost, 0)), 0) AS total_value,
            count(*) FILTER (WHERE sl.available_quantity = 0) AS out_of_stock_count,
            count(*) FILTER (WHERE sl.available_quantity > 0 AND sl.available_quantity <= $1) AS low_stock_count
        FROM stock_levels sl
    ` + latestCostJoin

	if err := r.DB.GetContext(ctx, &overview, query, lowStockThreshold); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (r *PGRepository) ListByStatus(ctx context.Context, f *dto.StatusFilters) ([]model.StockLevel, int, error) {
	var items []model.StockLevel
	var count int

	whereClause := ""
	switch f.Status {
	case dto.StatusOutOfStock:
		whereClause = " WHERE available_quantity = 0"
	case dto.StatusLowStock:
		whereClause = fmt.Sprintf(" WHERE available_quantity > 0 AND available_quantity <= %d", f.LowStockThreshold)
	case dto.StatusInStock:
		whereClause = fmt.Sprintf(" WHERE available_quantity > %d", f.LowStockThreshold)
	}

	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM stock_levels"+whereClause); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_levels" + whereClause + " ORDER BY available_quantity ASC, variant_id ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	err := r.DB.SelectContext(ctx, &items, query)
	return items, count, err
}

func (r *PGRepository) ValueBySupplier(ctx context.Context) ([]dto.SupplierValue, error) {
	var items []dto.SupplierValue
	query := `
        SELECT
            r.supplier_id,
            count(*) AS variant_count,
            COALESCE(SUM(sl.available_quantity * r.unit_cost), 0) AS total_value
        FROM stock_levels sl
    ` + latestCostJoin + `
        WHERE r.supplier_id IS NOT NULL
        GROUP BY r.supplier_id
        ORDER BY total_value DESC
    `

	err := r.DB.SelectContext(ctx, &items, query)
	return items, err
}

func (r *PGRepository) SearchByPattern(ctx context.Context, pattern string, page, pageSize int) ([]model.StockLevel, int, error) {
	var items []model.StockLevel
	var count int

	like := "%" + pattern + "%"
	whereClause := `
        WHERE variant_id ILIKE $1
           OR variant_id IN (
               SELECT variant_id FROM stock_receipts
               WHERE batch_number ILIKE $1 OR supplier_id ILIKE $1
           )
    `

	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM stock_levels "+whereClause, like); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_levels " + whereClause + " ORDER BY variant_id ASC"
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	err := r.DB.SelectContext(ctx, &items, query, like)
	return items, count, err
}

func (r *PGRepository) GetByVariantIDs(ctx context.Context, variantIDs []string) ([]model.StockLevel, error) {
	if len(variantIDs) == 0 {
		return []model.StockLevel{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM stock_levels WHERE variant_id IN (?)`, variantIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.StockLevel
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}
