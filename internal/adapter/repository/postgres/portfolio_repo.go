package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// categoryTargetRow is the store projection of a category joined to its optional target ratio
type categoryTargetRow struct {
	Division int64               `db:"division"`
	Name     string              `db:"name"`
	Ratio    decimal.NullDecimal `db:"target_ratio"`
}

// resolvedAmountRow is the store projection of a ledger row joined to its instrument's category
type resolvedAmountRow struct {
	Division int64           `db:"division"`
	Amount   decimal.Decimal `db:"amount"`
}

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// Snapshot reads category targets and resolved ledger amounts in one read-only
// REPEATABLE READ transaction, so a concurrent ledger replacement is never half visible
func (r *portfolioRepository) Snapshot(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	targetsQuery := `
		SELECT c.division, c.name, t.ratio AS target_ratio
		FROM asset_categories c
		LEFT JOIN target_percentage t ON c.division = t.asset_division
		ORDER BY c.division
	`
	var targetRows []categoryTargetRow
	if err := tx.SelectContext(ctx, &targetRows, targetsQuery); err != nil {
		return nil, fmt.Errorf("failed to query category targets: %w", err)
	}

	amountsQuery := `
		SELECT m.division, a.amount
		FROM assets a
		INNER JOIN asset_master m ON a.id = m.id
		ORDER BY a.row_id
	`
	var amountRows []resolvedAmountRow
	if err := tx.SelectContext(ctx, &amountRows, amountsQuery); err != nil {
		return nil, fmt.Errorf("failed to query ledger amounts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	snapshot := &domain.PortfolioSnapshot{
		Targets: make([]domain.CategoryTarget, 0, len(targetRows)),
		Amounts: make([]domain.ResolvedAmount, 0, len(amountRows)),
	}
	for _, row := range targetRows {
		// A category without a target row (NULL ratio) has a zero target
		ratio := decimal.Zero
		if row.Ratio.Valid {
			ratio = row.Ratio.Decimal
		}
		snapshot.Targets = append(snapshot.Targets, domain.CategoryTarget{
			CategoryID:   row.Division,
			CategoryName: row.Name,
			TargetRatio:  ratio,
		})
	}
	for _, row := range amountRows {
		snapshot.Amounts = append(snapshot.Amounts, domain.ResolvedAmount{
			CategoryID: row.Division,
			Amount:     row.Amount,
		})
	}

	return snapshot, nil
}
