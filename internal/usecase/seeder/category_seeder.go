package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/assetbalance-backend/internal/domain"
)

// SeedFile is the YAML document describing categories, their targets and the asset master
type SeedFile struct {
	Categories  []CategorySeed   `yaml:"categories"`
	Instruments []InstrumentSeed `yaml:"instruments"`
}

// CategorySeed defines one asset category. An empty target ratio means 0.
type CategorySeed struct {
	Division    int64  `yaml:"division"`
	Name        string `yaml:"name"`
	TargetRatio string `yaml:"target_ratio"`
}

// InstrumentSeed maps an instrument name (as it appears in exports) to a category division
type InstrumentSeed struct {
	Name     string `yaml:"name"`
	Division int64  `yaml:"division"`
}

// LoadSeedFile reads and parses a seed file from disk
func LoadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return ParseSeedFile(f)
}

// ParseSeedFile parses a seed document
func ParseSeedFile(r io.Reader) (*SeedFile, error) {
	var file SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &file, nil
}

// Targets converts the category seeds into validated domain targets
func (f *SeedFile) Targets() ([]domain.CategoryTarget, error) {
	targets := make([]domain.CategoryTarget, 0, len(f.Categories))
	seen := make(map[int64]bool, len(f.Categories))
	for _, c := range f.Categories {
		if seen[c.Division] {
			return nil, fmt.Errorf("duplicate category division %d", c.Division)
		}
		seen[c.Division] = true

		ratio := decimal.Zero
		if c.TargetRatio != "" {
			parsed, err := decimal.NewFromString(c.TargetRatio)
			if err != nil {
				return nil, fmt.Errorf("invalid target ratio %q for category %q: %w", c.TargetRatio, c.Name, err)
			}
			ratio = parsed
		}

		target := domain.CategoryTarget{
			CategoryID:   c.Division,
			CategoryName: c.Name,
			TargetRatio:  ratio,
		}
		if err := target.Validate(); err != nil {
			return nil, fmt.Errorf("invalid category %d: %w", c.Division, err)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// CategorySeeder loads category reference data and the asset master into the store
type CategorySeeder struct {
	categoryRepo   domain.CategoryRepository
	instrumentRepo domain.InstrumentRepository
	log            zerolog.Logger
}

// NewCategorySeeder creates a new CategorySeeder instance
func NewCategorySeeder(categoryRepo domain.CategoryRepository, instrumentRepo domain.InstrumentRepository, log zerolog.Logger) *CategorySeeder {
	return &CategorySeeder{
		categoryRepo:   categoryRepo,
		instrumentRepo: instrumentRepo,
		log:            log.With().Str("component", "seeder").Logger(),
	}
}

// Seed upserts every category and instrument of the file
// Logic:
//  1. Validate all categories and instruments before writing anything
//  2. Upsert categories (with their target ratios), then instruments
//
// Target ratios that do not add up to 1 are accepted but logged.
func (s *CategorySeeder) Seed(ctx context.Context, file *SeedFile) error {
	targets, err := file.Targets()
	if err != nil {
		return err
	}

	divisions := make(map[int64]bool, len(targets))
	sum := decimal.Zero
	for _, target := range targets {
		divisions[target.CategoryID] = true
		sum = sum.Add(target.TargetRatio)
	}

	for _, inst := range file.Instruments {
		if inst.Name == "" {
			return errors.New("instrument name cannot be empty")
		}
		if !divisions[inst.Division] {
			return fmt.Errorf("instrument %q references unknown category division %d", inst.Name, inst.Division)
		}
	}

	if len(targets) > 0 && !sum.Equal(decimal.NewFromInt(1)) {
		s.log.Warn().Str("sum", sum.String()).Msg("Category target ratios do not add up to 1")
	}

	for i := range targets {
		if err := s.categoryRepo.Upsert(ctx, &targets[i]); err != nil {
			return err
		}
	}

	for _, inst := range file.Instruments {
		instrument := &domain.Instrument{
			Name:       inst.Name,
			CategoryID: inst.Division,
		}
		if err := s.instrumentRepo.Upsert(ctx, instrument); err != nil {
			return err
		}
	}

	s.log.Info().
		Int("categories", len(targets)).
		Int("instruments", len(file.Instruments)).
		Msg("Reference data seeded")

	return nil
}
