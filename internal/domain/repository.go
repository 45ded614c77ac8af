package domain

import (
	"context"

	"github.com/google/uuid"
)

// InstrumentRepository defines the interface for asset master lookups
type InstrumentRepository interface {
	// ResolveNames maps instrument names to asset master IDs.
	// Names without a master record are absent from the returned map.
	ResolveNames(ctx context.Context, names []string) (map[string]int64, error)

	// Upsert creates or updates an instrument by name
	Upsert(ctx context.Context, instrument *Instrument) error
}

// LedgerRepository defines the interface for ledger persistence operations
type LedgerRepository interface {
	// Replace deletes the whole ledger and inserts rows in a single database transaction
	Replace(ctx context.Context, batchID uuid.UUID, rows []LedgerRow) error
}

// CategoryRepository defines the interface for category reference data
type CategoryRepository interface {
	// Upsert creates or updates a category and its target ratio
	Upsert(ctx context.Context, target *CategoryTarget) error
}

// PortfolioSnapshot is a consistent read of the ledger and the category table
type PortfolioSnapshot struct {
	Amounts []ResolvedAmount
	Targets []CategoryTarget
}

// PortfolioRepository defines the interface for reading the data a plan is computed from
type PortfolioRepository interface {
	// Snapshot reads resolved ledger amounts and category targets under one transaction
	Snapshot(ctx context.Context) (*PortfolioSnapshot, error)
}
