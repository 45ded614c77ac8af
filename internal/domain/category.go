package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TotalRowName labels the synthetic totals row appended to every plan
const TotalRowName = "合計金額"

// CategoryTarget represents an asset category and its target share of the portfolio.
// A category without a configured target carries a zero ratio.
type CategoryTarget struct {
	CategoryID   int64
	CategoryName string
	TargetRatio  decimal.Decimal // Fraction in [0,1]
}

// Validate ensures the category target adheres to domain rules
func (c *CategoryTarget) Validate() error {
	if c.CategoryName == "" {
		return errors.New("category name cannot be empty")
	}
	if c.TargetRatio.IsNegative() || c.TargetRatio.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("category target ratio must be between 0 and 1")
	}
	return nil
}

// CategoryStat is the per-category aggregate of the current ledger.
// Derived on every computation, never stored.
type CategoryStat struct {
	Name         string
	Amount       decimal.Decimal
	CurrentRatio decimal.Decimal
	TargetRatio  decimal.Decimal
}

// Deviation returns |CurrentRatio - TargetRatio|
func (s CategoryStat) Deviation() decimal.Decimal {
	return s.CurrentRatio.Sub(s.TargetRatio).Abs()
}

// PlannedRow is one line of a rebalancing plan. Ratios are fractions, not percentages.
type PlannedRow struct {
	Name         string
	Amount       decimal.Decimal
	Ratio        decimal.Decimal
	TargetAmount decimal.Decimal
	TargetRatio  decimal.Decimal
}

// AssetView is the display-ready form of a PlannedRow
type AssetView struct {
	AssetName    string `json:"asset_name"`
	Amount       string `json:"amount"`
	Ratio        string `json:"ratio"`
	TargetAmount string `json:"target_amount"`
	TargetRatio  string `json:"target_ratio"`
}
