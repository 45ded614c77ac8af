package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyLedger is returned when no line of an upload has the export's column layout.
// The existing ledger is kept untouched.
var ErrEmptyLedger = errors.New("export contains no ledger-shaped lines")

// DecodeError reports that the source bytes of an export could not be read.
// Encoding ambiguity is never a DecodeError.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to read export: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UnresolvedInstrumentError reports a ledger row whose instrument has no asset master record.
// The whole batch is rejected when this happens.
type UnresolvedInstrumentError struct {
	Name         string
	Line         int   // 1-based line number in the export, 0 if unknown
	InstrumentID int64 // Set when the store rejected an already resolved ID
}

func (e *UnresolvedInstrumentError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("instrument %d no longer in asset master", e.InstrumentID)
	}
	if e.Line > 0 {
		return fmt.Sprintf("instrument not found in asset master: %q (line %d)", e.Name, e.Line)
	}
	return fmt.Sprintf("instrument not found in asset master: %q", e.Name)
}
