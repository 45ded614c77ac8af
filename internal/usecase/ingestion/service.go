package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simaogato/assetbalance-backend/internal/domain"
	"github.com/simaogato/assetbalance-backend/internal/metrics"
	"github.com/simaogato/assetbalance-backend/internal/usecase/csvimport"
)

// IngestionService replaces the P/L ledger with the contents of a brokerage export
type IngestionService struct {
	InstrumentRepo domain.InstrumentRepository
	LedgerRepo     domain.LedgerRepository
	Metrics        *metrics.Metrics

	log zerolog.Logger
}

// NewIngestionService creates a new IngestionService instance
func NewIngestionService(
	instrumentRepo domain.InstrumentRepository,
	ledgerRepo domain.LedgerRepository,
	m *metrics.Metrics,
	log zerolog.Logger,
) *IngestionService {
	return &IngestionService{
		InstrumentRepo: instrumentRepo,
		LedgerRepo:     ledgerRepo,
		Metrics:        m,
		log:            log.With().Str("component", "ingestion").Logger(),
	}
}

// parsedLine keeps the 1-based export line number of an entry for error reporting
type parsedLine struct {
	entry domain.LedgerEntry
	line  int
}

// Ingest replaces the whole ledger with the rows of the export read from r
// Logic:
//  1. Read and decode the export (encoding is detected, never an error)
//  2. Parse every line; malformed and zero-amount lines are skipped and counted
//  3. An export without a single line of the ledger shape is rejected and the current ledger is kept.
//     Ledger-shaped lines that were all dropped (every position flat) still clear the ledger.
//  4. Resolve all instrument names in one lookup; the first unknown name (in file order) aborts the batch
//  5. Replace the ledger in a single transaction under a new batch ID
func (s *IngestionService) Ingest(ctx context.Context, r io.Reader) (*domain.IngestionResult, error) {
	// 1. Read and decode
	lines, enc, err := csvimport.ReadLines(r)
	if err != nil {
		s.Metrics.ObserveIngestion(metrics.ResultError, "", 0, 0)
		return nil, err
	}

	// 2. Parse
	parsed := make([]parsedLine, 0, len(lines))
	skipped := 0
	shaped := 0
	for i, line := range lines {
		if csvimport.HasLedgerShape(line) {
			shaped++
		}
		entry, ok := csvimport.ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		parsed = append(parsed, parsedLine{entry: entry, line: i + 1})
	}

	// 3. Not an export at all
	if shaped == 0 {
		s.Metrics.ObserveIngestion(metrics.ResultEmpty, string(enc), 0, skipped)
		s.log.Warn().Str("encoding", string(enc)).Int("lines", len(lines)).Msg("Upload contains no ledger-shaped lines")
		return nil, domain.ErrEmptyLedger
	}

	// 4. Resolve instrument names
	rows, err := s.resolve(ctx, parsed)
	if err != nil {
		var unresolved *domain.UnresolvedInstrumentError
		if errors.As(err, &unresolved) {
			s.Metrics.ObserveIngestion(metrics.ResultUnresolved, string(enc), 0, skipped)
			s.log.Warn().Str("instrument", unresolved.Name).Int("line", unresolved.Line).Msg("Rejected export with unknown instrument")
		} else {
			s.Metrics.ObserveIngestion(metrics.ResultError, string(enc), 0, skipped)
		}
		return nil, err
	}

	// 5. Replace the ledger atomically
	batchID := uuid.New()
	if err := s.LedgerRepo.Replace(ctx, batchID, rows); err != nil {
		// An instrument removed from the asset master after resolution
		var unresolved *domain.UnresolvedInstrumentError
		if errors.As(err, &unresolved) {
			describeUnresolved(unresolved, parsed, rows)
			s.Metrics.ObserveIngestion(metrics.ResultUnresolved, string(enc), 0, skipped)
			s.log.Warn().Str("instrument", unresolved.Name).Int("line", unresolved.Line).Msg("Instrument removed during upload")
			return nil, unresolved
		}
		s.Metrics.ObserveIngestion(metrics.ResultError, string(enc), 0, skipped)
		return nil, err
	}

	s.Metrics.ObserveIngestion(metrics.ResultSuccess, string(enc), len(rows), skipped)
	s.log.Info().
		Str("batch_id", batchID.String()).
		Str("encoding", string(enc)).
		Int("inserted", len(rows)).
		Int("skipped", skipped).
		Msg("Ledger replaced")

	return &domain.IngestionResult{
		BatchID:  batchID,
		Encoding: string(enc),
		Inserted: len(rows),
		Skipped:  skipped,
	}, nil
}

// resolve maps every parsed entry to its asset master ID
func (s *IngestionService) resolve(ctx context.Context, parsed []parsedLine) ([]domain.LedgerRow, error) {
	if len(parsed) == 0 {
		return []domain.LedgerRow{}, nil
	}

	seen := make(map[string]struct{}, len(parsed))
	names := make([]string, 0, len(parsed))
	for _, p := range parsed {
		if _, ok := seen[p.entry.InstrumentName]; ok {
			continue
		}
		seen[p.entry.InstrumentName] = struct{}{}
		names = append(names, p.entry.InstrumentName)
	}

	ids, err := s.InstrumentRepo.ResolveNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve instruments: %w", err)
	}

	rows := make([]domain.LedgerRow, 0, len(parsed))
	for _, p := range parsed {
		id, ok := ids[p.entry.InstrumentName]
		if !ok {
			return nil, &domain.UnresolvedInstrumentError{Name: p.entry.InstrumentName, Line: p.line}
		}
		rows = append(rows, domain.LedgerRow{InstrumentID: id, Amount: p.entry.Amount})
	}

	return rows, nil
}

// describeUnresolved fills in the name and line of an error that only carries an instrument ID.
// rows[i] was resolved from parsed[i].
func describeUnresolved(unresolved *domain.UnresolvedInstrumentError, parsed []parsedLine, rows []domain.LedgerRow) {
	if unresolved.Name != "" {
		return
	}
	for i, row := range rows {
		if row.InstrumentID == unresolved.InstrumentID {
			unresolved.Name = parsed[i].entry.InstrumentName
			unresolved.Line = parsed[i].line
			return
		}
	}
}
