package storage

import (
	"context"
	"fmt"

	"github.com/cardwiz/cardwiz/internal/model"
)

// ReplaceCards swaps the cached card list for the one just fetched from
// the gateway. The gateway owns the wallet, so the cache never merges.
func (s *SQLiteStorage) ReplaceCards(ctx context.Context, cards []model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i, c := range cards {
		if err := validateCard(&c); err != nil {
			return fmt.Errorf("card at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (id, card_name, issuer, network, last_four, active, doc_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range cards {
		if _, err := stmt.ExecContext(ctx, c.ID, c.CardName, c.Issuer, string(c.Network), c.LastFourDigits, c.Active, c.DocStatus); err != nil {
			return fmt.Errorf("failed to save card %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cards: %w", err)
	}
	return nil
}

// ListCards returns the cached card list ordered by name.
func (s *SQLiteStorage) ListCards(ctx context.Context) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_name, issuer, network, last_four, active, doc_status
		FROM cards
		ORDER BY card_name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		var c model.Card
		var network string
		if err := rows.Scan(&c.ID, &c.CardName, &c.Issuer, &network, &c.LastFourDigits, &c.Active, &c.DocStatus); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		c.Network = model.CardNetwork(network)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, nil
}
