package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/retailcore/inventory-service/internal/ledger/dto"
	"github.com/retailcore/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetStockLevel(ctx context.Context, variantID string) (*model.StockLevel, error) {
	var lvl model.StockLevel
	query := `SELECT * FROM stock_levels WHERE variant_id = $1`

	err := r.DB.GetContext(ctx, &lvl, query, variantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Never stocked; caller treats as zero
		}
		return nil, err
	}
	return &lvl, nil
}

const upsertLevelQuery = `
    INSERT INTO stock_levels (
        variant_id, available_quantity, reserved_quantity, last_counted_at, updated_at, updated_by
    )
    VALUES (
        :variant_id, :available_quantity, :reserved_quantity, :last_counted_at, :updated_at, :updated_by
    )
    ON CONFLICT (variant_id)
    DO UPDATE SET
        available_quantity = EXCLUDED.available_quantity,
        reserved_quantity = EXCLUDED.reserved_quantity,
        last_counted_at = EXCLUDED.last_counted_at,
        updated_at = EXCLUDED.updated_at,
        updated_by = EXCLUDED.updated_by
`
// Note: total_quantity is a generated column, so we never write it

const insertTransactionQuery = `
    INSERT INTO stock_transactions (
        id, variant_id, type, quantity_change,
        available_before, available_after, reserved_before, reserved_after,
        reason, reference_type, reference_id, created_by, created_at
    )
    VALUES (
        :id, :variant_id, :type, :quantity_change,
        :available_before, :available_after, :reserved_before, :reserved_after,
        :reason, :reference_type, :reference_id, :created_by, :created_at
    )
`

const insertReceiptQuery = `
    INSERT INTO stock_receipts (
        id, variant_id, supplier_id, quantity_received, unit_cost,
        batch_number, notes, entry_date, received_by,
        is_processed, processed_at, processed_by
    )
    VALUES (
        :id, :variant_id, :supplier_id, :quantity_received, :unit_cost,
        :batch_number, :notes, :entry_date, :received_by,
        :is_processed, :processed_at, :processed_by
    )
`

func (r *PGRepository) ApplyChange(ctx context.Context, lvl *model.StockLevel, txn *model.StockTransaction) error {
	return r.applyChange(ctx, lvl, txn, nil)
}

func (r *PGRepository) ApplyChangeWithReceipt(ctx context.Context, lvl *model.StockLevel, txn *model.StockTransaction, receipt *model.StockReceipt) error {
	return r.applyChange(ctx, lvl, txn, receipt)
}

func (r *PGRepository) applyChange(ctx context.Context, lvl *model.StockLevel, txn *model.StockTransaction, receipt *model.StockReceipt) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.NamedExecContext(ctx, upsertLevelQuery, lvl); err != nil {
		return fmt.Errorf("failed to update stock level: %w", err)
	}

	if _, err = tx.NamedExecContext(ctx, insertTransactionQuery, txn); err != nil {
		return fmt.Errorf("failed to append stock transaction: %w", err)
	}

	if receipt != nil {
		if _, err = tx.NamedExecContext(ctx, insertReceiptQuery, receipt); err != nil {
			return fmt.Errorf("failed to insert provenance receipt: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.StockTransaction, int, error) {
	var items []model.StockTransaction
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VariantID != "" {
		conditions = append(conditions, "variant_id = :variant_id")
		args["variant_id"] = f.VariantID
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	// History is replayed oldest first so before/after chains line up
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
