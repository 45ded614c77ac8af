package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// foreignKeyViolation is the PostgreSQL error code for a broken REFERENCES constraint
const foreignKeyViolation = "23503"

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Replace deletes every ledger row and inserts rows in a single database transaction.
// Concurrent readers see either the old or the new ledger, never a mix.
func (r *ledgerRepository) Replace(ctx context.Context, batchID uuid.UUID, rows []domain.LedgerRow) error {
	// Start a database transaction
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets`); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO assets (id, amount, batch_id)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.InstrumentID, row.Amount.String(), batchID); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
				return &domain.UnresolvedInstrumentError{InstrumentID: row.InstrumentID}
			}
			return fmt.Errorf("failed to insert ledger row: %w", err)
		}
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
