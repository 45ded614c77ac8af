package csvimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds an export line with the given name and P/L amount and n columns in total
func row(name, amount string, n int) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = "x"
	}
	fields[0] = name
	if n > 9 {
		fields[9] = amount
	}
	return strings.Join(fields, ",")
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantOK     bool
		wantName   string
		wantAmount string
	}{
		{
			name:       "eleven fields with amount",
			line:       row("Fund A", "1234.56", 11),
			wantOK:     true,
			wantName:   "Fund A",
			wantAmount: "1234.56",
		},
		{
			name:       "negative amount",
			line:       row("Fund B", "-987", 11),
			wantOK:     true,
			wantName:   "Fund B",
			wantAmount: "-987",
		},
		{
			name:       "quoted name and padded fields",
			line:       row(`  "eMAXIS Slim 米国株式(S&P500)" `, " 5000 ", 11),
			wantOK:     true,
			wantName:   "eMAXIS Slim 米国株式(S&P500)",
			wantAmount: "5000",
		},
		{name: "ten fields", line: row("Fund A", "100", 10), wantOK: false},
		{name: "twelve fields", line: row("Fund A", "100", 12), wantOK: false},
		{name: "zero amount", line: row("Fund A", "0", 11), wantOK: false},
		{name: "formatted zero amount", line: row("Fund A", "0.00", 11), wantOK: false},
		{name: "negative zero amount", line: row("Fund A", "-0", 11), wantOK: false},
		{name: "unparsable amount counts as zero", line: row("Fund A", "評価損益", 11), wantOK: false},
		{name: "empty name", line: row(`""`, "100", 11), wantOK: false},
		{name: "blank line", line: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := ParseLine(tt.line)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, entry.InstrumentName)
				assert.True(t, entry.Amount.Equal(decimal.RequireFromString(tt.wantAmount)),
					"amount %s should equal %s", entry.Amount, tt.wantAmount)
			}
		})
	}
}

func TestHasLedgerShape(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"zero amount row", row("Fund A", "0", 11), true},
		{"header row", row("銘柄名", "評価損益", 11), true},
		{"ten columns", row("Fund A", "100", 10), false},
		{"twelve columns", row("Fund A", "100", 12), false},
		{"quoted comma in name", row(`"Fund, A"`, "100", 11), false},
		{"empty line", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLedgerShape(tt.line))
		})
	}
}

func TestParseLines_CountsSkipped(t *testing.T) {
	lines := []string{
		row("銘柄名", "評価損益", 11), // header
		row("Fund A", "1200", 11),
		"",
		row("Fund B", "0", 11),
		row("Fund C", "-300.5", 11),
		"合計,,,",
	}

	entries, skipped := ParseLines(lines)

	require.Len(t, entries, 2)
	assert.Equal(t, "Fund A", entries[0].InstrumentName)
	assert.Equal(t, "Fund C", entries[1].InstrumentName)
	assert.True(t, entries[1].Amount.Equal(decimal.RequireFromString("-300.5")))
	assert.Equal(t, 4, skipped)
}

func TestDecodeAndParse_BrokerageExport(t *testing.T) {
	export := "銘柄名,口数,取得単価,基準価額,取得金額,評価金額,前日比,前日比率,評価損益率,評価損益,分配金\r\n" +
		"全世界株式,100,10000,12000,1000000,1200000,100,0.1,20,200000,0\r\n"

	lines := DecodeLines([]byte(export))
	entries, skipped := ParseLines(lines)

	require.Len(t, entries, 1)
	assert.Equal(t, "全世界株式", entries[0].InstrumentName)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(200000)))
	assert.Equal(t, 1, skipped)
}
