package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/assetbalance-backend/internal/domain"
	"github.com/simaogato/assetbalance-backend/internal/metrics"
	"github.com/simaogato/assetbalance-backend/internal/usecase/allocator"
	"github.com/simaogato/assetbalance-backend/internal/usecase/presenter"
)

// PortfolioService computes rebalancing plans from the stored ledger
type PortfolioService struct {
	PortfolioRepo domain.PortfolioRepository
	Metrics       *metrics.Metrics

	log zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(portfolioRepo domain.PortfolioRepository, m *metrics.Metrics, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		PortfolioRepo: portfolioRepo,
		Metrics:       m,
		log:           log.With().Str("component", "portfolio").Logger(),
	}
}

// Plan computes the rebalancing plan
// Logic:
//  1. Read ledger amounts and category targets from one consistent snapshot
//  2. Aggregate amounts per category
//  3. Project target amounts from the most out-of-balance category
func (s *PortfolioService) Plan(ctx context.Context) ([]domain.PlannedRow, domain.PlannedRow, error) {
	start := time.Now()

	snapshot, err := s.PortfolioRepo.Snapshot(ctx)
	if err != nil {
		return nil, domain.PlannedRow{}, fmt.Errorf("failed to read portfolio snapshot: %w", err)
	}

	stats := allocator.Aggregate(snapshot.Amounts, snapshot.Targets)
	rows, totals := allocator.Plan(stats)

	if i, ok := allocator.Baseline(stats); ok {
		s.log.Debug().
			Str("baseline", stats[i].Name).
			Str("total", totals.Amount.String()).
			Str("base_total", totals.TargetAmount.String()).
			Msg("Computed rebalancing plan")
	}
	s.Metrics.ObservePlan(time.Since(start).Seconds())

	return rows, totals, nil
}

// ViewAssets returns the plan as display rows, totals row last
func (s *PortfolioService) ViewAssets(ctx context.Context) ([]domain.AssetView, error) {
	rows, totals, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return presenter.Format(rows, totals), nil
}
