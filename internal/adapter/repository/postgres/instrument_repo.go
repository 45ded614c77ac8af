package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// instrumentRow is the store projection of an asset_master record
type instrumentRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// instrumentRepository implements domain.InstrumentRepository
type instrumentRepository struct {
	db *DB
}

// NewInstrumentRepository creates a new instrument repository
func NewInstrumentRepository(db *DB) domain.InstrumentRepository {
	return &instrumentRepository{db: db}
}

// ResolveNames maps instrument names to asset master IDs in a single query
func (r *instrumentRepository) ResolveNames(ctx context.Context, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	query := `
		SELECT id, name
		FROM asset_master
		WHERE name = ANY($1)
	`

	var rows []instrumentRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to resolve instrument names: %w", err)
	}

	for _, row := range rows {
		ids[row.Name] = row.ID
	}

	return ids, nil
}

// Upsert creates or updates an instrument by name and sets its ID
func (r *instrumentRepository) Upsert(ctx context.Context, instrument *domain.Instrument) error {
	query := `
		INSERT INTO asset_master (name, division)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET division = EXCLUDED.division
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query, instrument.Name, instrument.CategoryID).Scan(&instrument.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert instrument: %w", err)
	}

	return nil
}
