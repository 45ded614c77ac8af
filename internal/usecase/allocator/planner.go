// Package allocator computes how a portfolio's categories should be resized to reach their target ratios.
package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

var one = decimal.NewFromInt(1)

// Plan projects a target amount for every category.
// Logic:
//  1. Total = sum of all category amounts
//  2. Pick the baseline: the category with the largest |current ratio - target ratio|
//  3. Base total = baseline amount / baseline target ratio, so the baseline hits its target
//     without moving; falls back to Total when there is no baseline or its target is zero
//  4. Target amount of each category = base total * target ratio
//  5. Append a totals row carrying Total and the base total
//
// Every division is guarded, so no row can hold an infinite or undefined value.
func Plan(stats []domain.CategoryStat) ([]domain.PlannedRow, domain.PlannedRow) {
	total := decimal.Zero
	for _, stat := range stats {
		total = total.Add(stat.Amount)
	}

	baseTotal := total
	if i, ok := Baseline(stats); ok && stats[i].TargetRatio.IsPositive() {
		baseTotal = stats[i].Amount.Div(stats[i].TargetRatio)
	}

	rows := make([]domain.PlannedRow, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, domain.PlannedRow{
			Name:         stat.Name,
			Amount:       stat.Amount,
			Ratio:        stat.CurrentRatio,
			TargetAmount: baseTotal.Mul(stat.TargetRatio),
			TargetRatio:  stat.TargetRatio,
		})
	}

	totals := domain.PlannedRow{
		Name:         domain.TotalRowName,
		Amount:       total,
		Ratio:        one,
		TargetAmount: baseTotal,
		TargetRatio:  one,
	}

	return rows, totals
}

// Baseline returns the index of the most out-of-balance category.
// Ties go to the first category in input order. ok is false for empty input.
func Baseline(stats []domain.CategoryStat) (index int, ok bool) {
	if len(stats) == 0 {
		return 0, false
	}

	maxDeviation := stats[0].Deviation()
	for i := 1; i < len(stats); i++ {
		if deviation := stats[i].Deviation(); deviation.GreaterThan(maxDeviation) {
			index = i
			maxDeviation = deviation
		}
	}

	return index, true
}
