package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/retailcore/inventory-service/internal/model"
	"github.com/retailcore/inventory-service/internal/receipt/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, receipt *model.StockReceipt) error {
	query := `
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
	_, err := r.DB.NamedExecContext(ctx, query, receipt)
	return err
}

func (r *PGRepository) GetByID(ctx context.Context, id string) (*model.StockReceipt, error) {
	var receipt model.StockReceipt
	err := r.DB.GetContext(ctx, &receipt, `SELECT * FROM stock_receipts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrReceiptNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

func (r *PGRepository) Update(ctx context.Context, receipt *model.StockReceipt) error {
	query := `
        UPDATE stock_receipts
        SET quantity_received = :quantity_received,
            unit_cost = :unit_cost,
            batch_number = :batch_number,
            notes = :notes
        WHERE id = :id AND is_processed = false
    `
	res, err := r.DB.NamedExecContext(ctx, query, receipt)
	if err != nil {
		return err
	}
	return r.draftGuard(ctx, receipt.ID, res)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM stock_receipts WHERE id = $1 AND is_processed = false`, id)
	if err != nil {
		return err
	}
	return r.draftGuard(ctx, id, res)
}

// draftGuard distinguishes "no such receipt" from "receipt already
// processed" when a draft-only statement touched zero rows.
func (r *PGRepository) draftGuard(ctx context.Context, id string, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM stock_receipts WHERE id = $1)`, id); err != nil {
		return err
	}
	if !exists {
		return model.ErrReceiptNotFound
	}
	return model.ErrReceiptAlreadyProcessed
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ReceiptFilters) ([]model.StockReceipt, int, error) {
	var items []model.StockReceipt
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VariantID != "" {
		conditions = append(conditions, "variant_id = :variant_id")
		args["variant_id"] = f.VariantID
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.Processed != nil {
		conditions = append(conditions, "is_processed = :is_processed")
		args["is_processed"] = *f.Processed
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_receipts" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_receipts" + whereClause + " ORDER BY entry_date DESC"
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

func (r *PGRepository) Process(ctx context.Context, receipt *model.StockReceipt, lvl *model.StockLevel, txn *model.StockTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The is_processed guard inside the transaction is the idempotency
	// defense: a duplicate request updates zero rows and rolls back.
	res, err := tx.NamedExecContext(ctx, `
        UPDATE stock_receipts
        SET is_processed = true, processed_at = :processed_at, processed_by = :processed_by
        WHERE id = :id AND is_processed = false
    `, receipt)
	if err != nil {
		return fmt.Errorf("failed to mark receipt processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrReceiptAlreadyProcessed
	}

	_, err = tx.NamedExecContext(ctx, `
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
            updated_at = EXCLUDED.updated_at,
            updated_by = EXCLUDED.updated_by
    `, lvl)
	if err != nil {
		return fmt.Errorf("failed to update stock level: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
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
    `, txn)
	if err != nil {
		return fmt.Errorf("failed to append stock transaction: %w", err)
	}

	return tx.Commit()
}
