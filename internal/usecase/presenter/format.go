// Package presenter renders rebalancing plans as display strings.
package presenter

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Format renders planned rows followed by the totals row
func Format(rows []domain.PlannedRow, totals domain.PlannedRow) []domain.AssetView {
	views := make([]domain.AssetView, 0, len(rows)+1)
	for _, row := range rows {
		views = append(views, formatRow(row))
	}
	return append(views, formatRow(totals))
}

func formatRow(row domain.PlannedRow) domain.AssetView {
	return domain.AssetView{
		AssetName:    row.Name,
		Amount:       Money(row.Amount),
		Ratio:        Percent(row.Ratio),
		TargetAmount: Money(row.TargetAmount),
		TargetRatio:  Percent(row.TargetRatio),
	}
}

// Money rounds half away from zero to 2 places and drops trailing zeros ("466.67", "700")
func Money(amount decimal.Decimal) string {
	return amount.Round(moneyPlaces).String()
}

// Percent renders a fraction as a percentage with up to 2 places ("70%", "33.33%")
func Percent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).Round(moneyPlaces).String() + "%"
}
