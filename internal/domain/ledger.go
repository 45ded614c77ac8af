package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry represents one profit/loss record parsed from a brokerage export.
// A batch of entries replaces the whole ledger; entries are never merged.
type LedgerEntry struct {
	InstrumentName string
	Amount         decimal.Decimal // Signed P/L amount (column 9 of the export)
}

// Validate ensures the entry carries information worth storing
func (e *LedgerEntry) Validate() error {
	if e.InstrumentName == "" {
		return errors.New("ledger entry instrument name cannot be empty")
	}
	if e.Amount.IsZero() {
		return errors.New("ledger entry amount cannot be zero")
	}
	return nil
}

// LedgerRow is a LedgerEntry after its instrument name was resolved against the asset master
type LedgerRow struct {
	InstrumentID int64
	Amount       decimal.Decimal
}

// Instrument represents an asset master record mapping an instrument to its category
type Instrument struct {
	ID         int64
	Name       string
	CategoryID int64
}

// ResolvedAmount is a persisted ledger amount already joined to its category
type ResolvedAmount struct {
	CategoryID int64
	Amount     decimal.Decimal
}

// IngestionResult summarizes one ledger replacement
type IngestionResult struct {
	BatchID  uuid.UUID
	Encoding string
	Inserted int
	Skipped  int // Lines dropped by the parser (wrong column count, zero amount)
}
