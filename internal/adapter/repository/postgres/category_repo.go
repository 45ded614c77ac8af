package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

// Upsert creates or updates a category and its target ratio in one transaction
func (r *categoryRepository) Upsert(ctx context.Context, target *domain.CategoryTarget) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	categoryQuery := `
		INSERT INTO asset_categories (division, name)
		VALUES ($1, $2)
		ON CONFLICT (division) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := tx.ExecContext(ctx, categoryQuery, target.CategoryID, target.CategoryName); err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}

	ratioQuery := `
		INSERT INTO target_percentage (asset_division, ratio)
		VALUES ($1, $2)
		ON CONFLICT (asset_division) DO UPDATE SET ratio = EXCLUDED.ratio
	`
	if _, err := tx.ExecContext(ctx, ratioQuery, target.CategoryID, target.TargetRatio.String()); err != nil {
		return fmt.Errorf("failed to upsert target ratio: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
