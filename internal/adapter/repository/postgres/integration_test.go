//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetbalance-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/assetbalance-backend/internal/domain"
	"github.com/simaogato/assetbalance-backend/internal/usecase/ingestion"
	"github.com/simaogato/assetbalance-backend/internal/usecase/portfolio"
	"github.com/simaogato/assetbalance-backend/internal/usecase/seeder"
)

var db *postgres.DB

// TestMain connects to the database named by DB_CONN_STR (or DB_HOST and friends) and applies the schema
func TestMain(m *testing.M) {
	var err error
	db, err = postgres.NewDB(getDBConnectionString(), postgres.Options{MaxOpenConns: 5, MaxIdleConns: 2})
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		panic(fmt.Sprintf("Failed to apply schema: %v", err))
	}

	code := m.Run()
	db.Close()
	os.Exit(code)
}

const integrationSeed = `
categories:
  - division: 901
    name: IT Stocks
    target_ratio: "0.6"
  - division: 902
    name: IT Bonds
    target_ratio: "0.4"
instruments:
  - name: IT Acme Corp
    division: 901
  - name: IT Gov Bond 10Y
    division: 902
`

func exportLine(name, amount string) string {
	return fmt.Sprintf(`"%s",a,b,c,d,e,f,g,h,%s,k`, name, amount)
}

// TestUploadThenView runs the whole path: seed, ingest an export, read the plan back
func TestUploadThenView(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	file, err := seeder.ParseSeedFile(strings.NewReader(integrationSeed))
	require.NoError(t, err)

	categoryRepo := postgres.NewCategoryRepository(db)
	instrumentRepo := postgres.NewInstrumentRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	portfolioRepo := postgres.NewPortfolioRepository(db)

	require.NoError(t, seeder.NewCategorySeeder(categoryRepo, instrumentRepo, log).Seed(ctx, file))

	export := strings.Join([]string{
		"header line",
		exportLine("IT Acme Corp", "500"),
		exportLine("IT Acme Corp", "200"),
		exportLine("IT Gov Bond 10Y", "300"),
	}, "\r\n")

	result, err := ingestion.NewIngestionService(instrumentRepo, ledgerRepo, nil, log).
		Ingest(ctx, strings.NewReader(export))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 1, result.Skipped)

	rows, totals, err := portfolio.NewPortfolioService(portfolioRepo, nil, log).Plan(ctx)
	require.NoError(t, err)

	byName := make(map[string]domain.PlannedRow)
	for _, row := range rows {
		byName[row.Name] = row
	}
	require.Contains(t, byName, "IT Stocks")
	require.Contains(t, byName, "IT Bonds")
	assert.True(t, decimal.NewFromInt(700).Equal(byName["IT Stocks"].Amount))
	assert.True(t, decimal.NewFromInt(300).Equal(byName["IT Bonds"].Amount))
	assert.True(t, decimal.NewFromInt(1000).Equal(totals.Amount))
	assert.Equal(t, domain.TotalRowName, totals.Name)

	// A failed upload must leave the previous ledger untouched
	_, err = ingestion.NewIngestionService(instrumentRepo, ledgerRepo, nil, log).
		Ingest(ctx, strings.NewReader(exportLine("IT Unknown Fund", "10")))
	var unresolved *domain.UnresolvedInstrumentError
	require.ErrorAs(t, err, &unresolved)

	snapshot, err := portfolioRepo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Amounts, 3)
}

// getDBConnectionString builds the connection string from environment variables
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "my_assets"),
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
