package storage

import (
	"context"
	"fmt"

	"github.com/cardwiz/cardwiz/internal/model"
)

// SaveValidations upserts validations into the cache. Re-importing the
// same statement or re-syncing the same transactions is idempotent.
func (s *SQLiteStorage) SaveValidations(ctx context.Context, validations []model.Validation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateValidations(validations); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO validations (id, merchant, category, currency, amount, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			merchant = excluded.merchant,
			category = excluded.category,
			currency = excluded.currency,
			amount = excluded.amount,
			transaction_date = excluded.transaction_date
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, v := range validations {
		currency := v.Currency
		if currency == "" {
			currency = model.DefaultCurrency
		}
		if _, err := stmt.ExecContext(ctx, v.ID, v.Merchant, v.Category, currency, v.Amount, v.Date); err != nil {
			return fmt.Errorf("failed to save validation %d: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit validations: %w", err)
	}
	return nil
}

// RecentValidations returns up to limit validations, most recent first.
// Ties on transaction date break on descending ID so the order is stable.
func (s *SQLiteStorage) RecentValidations(ctx context.Context, limit int) ([]model.Validation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, merchant, category, currency, amount, transaction_date
		FROM validations
		ORDER BY transaction_date DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query validations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var validations []model.Validation
	for rows.Next() {
		var v model.Validation
		if err := rows.Scan(&v.ID, &v.Merchant, &v.Category, &v.Currency, &v.Amount, &v.Date); err != nil {
			return nil, fmt.Errorf("failed to scan validation: %w", err)
		}
		validations = append(validations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate validations: %w", err)
	}
	return validations, nil
}

// ValidationCount returns the number of cached validations.
func (s *SQLiteStorage) ValidationCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM validations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count validations: %w", err)
	}
	return count, nil
}
