package csvimport

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// Column layout of the brokerage export
const (
	ledgerColumnCount   = 11
	nameColumn          = 0
	profitLossColumn    = 9
	instrumentNameQuote = `"`
)

// ParseLine turns one export line into a ledger entry.
// Logic:
//  1. Split on comma and trim every field
//  2. Skip rows that do not have exactly 11 fields
//  3. Field 0 is the instrument name (surrounding quotes stripped)
//  4. Field 9 is the signed P/L amount; unparsable text counts as zero
//  5. Skip rows whose amount is numerically zero or whose name is empty
//
// The second return value is false for skipped rows. Malformed rows are never an error.
func ParseLine(line string) (domain.LedgerEntry, bool) {
	if !HasLedgerShape(line) {
		return domain.LedgerEntry{}, false
	}
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	amount, err := decimal.NewFromString(fields[profitLossColumn])
	if err != nil {
		amount = decimal.Zero
	}

	entry := domain.LedgerEntry{
		InstrumentName: strings.Trim(fields[nameColumn], instrumentNameQuote),
		Amount:         amount,
	}
	if err := entry.Validate(); err != nil {
		return domain.LedgerEntry{}, false
	}

	return entry, true
}

// HasLedgerShape reports whether line has the export's column count,
// whatever the content of its fields
func HasLedgerShape(line string) bool {
	return strings.Count(line, ",") == ledgerColumnCount-1
}

// ParseLines parses every line and reports how many were skipped
func ParseLines(lines []string) ([]domain.LedgerEntry, int) {
	entries := make([]domain.LedgerEntry, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		entry, ok := ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}
