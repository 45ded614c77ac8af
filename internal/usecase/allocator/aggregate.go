package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// Aggregate sums resolved ledger amounts per category and computes each category's current ratio.
// Logic:
//  1. Every category in targets gets a row, in targets order (zero amount if nothing matches)
//  2. Amounts whose category is not in targets are outside the partition and ignored
//  3. Current ratio = category amount / grand total of all categories (0 if the total is not positive)
func Aggregate(entries []domain.ResolvedAmount, targets []domain.CategoryTarget) []domain.CategoryStat {
	sums := make(map[int64]decimal.Decimal, len(targets))
	for _, target := range targets {
		sums[target.CategoryID] = decimal.Zero
	}

	total := decimal.Zero
	for _, entry := range entries {
		sum, ok := sums[entry.CategoryID]
		if !ok {
			continue
		}
		sums[entry.CategoryID] = sum.Add(entry.Amount)
		total = total.Add(entry.Amount)
	}

	stats := make([]domain.CategoryStat, 0, len(targets))
	for _, target := range targets {
		amount := sums[target.CategoryID]
		stats = append(stats, domain.CategoryStat{
			Name:         target.CategoryName,
			Amount:       amount,
			CurrentRatio: Ratio(amount, total),
			TargetRatio:  target.TargetRatio,
		})
	}

	return stats
}

// Ratio returns part / total, or zero when total is not positive
func Ratio(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total)
}
