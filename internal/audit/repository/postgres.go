package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailcore/inventory-service/internal/audit/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListAdjustments(ctx context.Context, f *dto.AuditHistoryFilters) ([]model.StockTransaction, int, error) {
	var items []model.StockTransaction
	var count int

	conditions := []string{"type = :type"}
	args := map[string]interface{}{"type": string(model.TransactionAdjustment)}

	if f.VariantID != "" {
		conditions = append(conditions, "variant_id = :variant_id")
		args["variant_id"] = f.VariantID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM stock_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_transactions" + whereClause + " ORDER BY created_at ASC, id ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListStaleLevels(ctx context.Context, cutoff time.Time, page, pageSize int) ([]model.StockLevel, int, error) {
	var items []model.StockLevel
	var count int

	whereClause := ` WHERE last_counted_at IS NULL OR last_counted_at < $1`

	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM stock_levels"+whereClause, cutoff); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_levels" + whereClause +
		" ORDER BY last_counted_at ASC NULLS FIRST, variant_id ASC"
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", pageSize, offset)
	}

	err := r.DB.SelectContext(ctx, &items, query, cutoff)
	return items, count, err
}
