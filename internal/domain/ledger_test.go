package domain

import (
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   LedgerEntry
		wantErr bool
		errMsg  string
	}{
		{
			name:  "gain should pass",
			entry: LedgerEntry{InstrumentName: "eMAXIS Slim 全世界株式", Amount: decimal.RequireFromString("1234.56")},
		},
		{
			name:  "loss should pass",
			entry: LedgerEntry{InstrumentName: "Bond Fund", Amount: decimal.RequireFromString("-20")},
		},
		{
			name:    "zero amount should fail",
			entry:   LedgerEntry{InstrumentName: "Bond Fund", Amount: decimal.Zero},
			wantErr: true,
			errMsg:  "amount cannot be zero",
		},
		{
			name:    "empty name should fail",
			entry:   LedgerEntry{Amount: decimal.NewFromInt(1)},
			wantErr: true,
			errMsg:  "instrument name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeError_Unwrap(t *testing.T) {
	err := error(&DecodeError{Err: io.ErrUnexpectedEOF})

	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "failed to read export")
}

func TestUnresolvedInstrumentError_Message(t *testing.T) {
	withLine := &UnresolvedInstrumentError{Name: "Unknown Fund", Line: 4}
	withoutLine := &UnresolvedInstrumentError{Name: "Unknown Fund"}

	assert.Equal(t, `instrument not found in asset master: "Unknown Fund" (line 4)`, withLine.Error())
	assert.Equal(t, `instrument not found in asset master: "Unknown Fund"`, withoutLine.Error())

	var target *UnresolvedInstrumentError
	assert.True(t, errors.As(error(withLine), &target))
	assert.Equal(t, 4, target.Line)
}
