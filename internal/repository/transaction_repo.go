// Package repository provides SQLite data access for the transaction
// dataset and the alert dispatch history.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bistro-ops/bistro/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TransactionRepository reads and replaces the imported daily dataset.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ReplaceAll deletes every stored row and inserts rows in order, recording
// the import source. It runs inside tx when one is given.
func (r *TransactionRepository) ReplaceAll(ctx context.Context, tx *sql.Tx, source string, rows []models.Transaction) error {
	if tx == nil {
		own, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning import: %w", err)
		}
		defer own.Rollback()
		if err := r.replaceAll(ctx, own, source, rows); err != nil {
			return err
		}
		if err := own.Commit(); err != nil {
			return fmt.Errorf("committing import: %w", err)
		}
		return nil
	}
	return r.replaceAll(ctx, tx, source, rows)
}

func (r *TransactionRepository) replaceAll(ctx context.Context, tx *sql.Tx, source string, rows []models.Transaction) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			txn_date, revenue, total_expenses, net_profit, food_costs,
			labor_costs, utilities, misc_expenses, category, item
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range rows {
		_, err := stmt.ExecContext(ctx,
			t.Date.String(),
			t.Revenue,
			t.TotalExpenses,
			t.NetProfit,
			t.FoodCosts,
			t.LaborCosts,
			t.Utilities,
			t.Miscellaneous,
			t.Category,
			t.Item,
		)
		if err != nil {
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO dataset_imports (source, row_count, imported_at) VALUES (?, ?, ?)",
		source, len(rows), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}
	return nil
}

const selectTransactions = `
	SELECT txn_date, revenue, total_expenses, net_profit, food_costs,
		labor_costs, utilities, misc_expenses, category, item
	FROM transactions`

// ListRange returns rows whose date falls in [start, end], both inclusive,
// in dataset order.
func (r *TransactionRepository) ListRange(ctx context.Context, start, end models.Date) ([]models.Transaction, error) {
	return r.query(ctx, selectTransactions+" WHERE txn_date >= ? AND txn_date <= ? ORDER BY id",
		start.String(), end.String())
}

// Bounds returns the earliest and latest dates in the dataset.
// ok is false when the dataset is empty.
func (r *TransactionRepository) Bounds(ctx context.Context) (first, last models.Date, ok bool, err error) {
	var minDate, maxDate sql.NullString
	err = r.db.QueryRowContext(ctx,
		"SELECT MIN(txn_date), MAX(txn_date) FROM transactions",
	).Scan(&minDate, &maxDate)
	if err != nil {
		return first, last, false, fmt.Errorf("querying dataset bounds: %w", err)
	}
	if !minDate.Valid || !maxDate.Valid {
		return first, last, false, nil
	}

	if first, err = models.ParseDate(minDate.String); err != nil {
		return first, last, false, fmt.Errorf("parsing first date: %w", err)
	}
	if last, err = models.ParseDate(maxDate.String); err != nil {
		return first, last, false, fmt.Errorf("parsing last date: %w", err)
	}
	return first, last, true, nil
}

// Count returns the number of stored rows.
func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	result := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var t models.Transaction
	var dateStr string

	err := rows.Scan(
		&dateStr,
		&t.Revenue,
		&t.TotalExpenses,
		&t.NetProfit,
		&t.FoodCosts,
		&t.LaborCosts,
		&t.Utilities,
		&t.Miscellaneous,
		&t.Category,
		&t.Item,
	)
	if err != nil {
		return t, fmt.Errorf("scanning transaction: %w", err)
	}

	if t.Date, err = models.ParseDate(dateStr); err != nil {
		return t, fmt.Errorf("parsing transaction date: %w", err)
	}
	return t, nil
}
