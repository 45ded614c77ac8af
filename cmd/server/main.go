package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/assetbalance-backend/internal/adapter/grpc"
	"github.com/simaogato/assetbalance-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/assetbalance-backend/internal/adapter/rest"
	"github.com/simaogato/assetbalance-backend/internal/config"
	"github.com/simaogato/assetbalance-backend/internal/logger"
	"github.com/simaogato/assetbalance-backend/internal/metrics"
	"github.com/simaogato/assetbalance-backend/internal/usecase/ingestion"
	"github.com/simaogato/assetbalance-backend/internal/usecase/portfolio"
	"github.com/simaogato/assetbalance-backend/internal/usecase/seeder"
)

const dbConnectAttempts = 5

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{})
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// 1. Setup Database (Postgres may still be starting under docker compose)
	db, err := connectDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// 2. Initialize Repositories (Postgres)
	instrumentRepo := postgres.NewInstrumentRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	portfolioRepo := postgres.NewPortfolioRepository(db)

	// Seed reference data when a seed file is configured
	if cfg.SeedFile != "" {
		file, err := seeder.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load seed file")
		}
		if err := seeder.NewCategorySeeder(categoryRepo, instrumentRepo, log).Seed(ctx, file); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed categories")
		}
		log.Info().Str("file", cfg.SeedFile).Msg("Reference data seeded successfully")
	}

	// 3. Initialize Services (Use Cases)
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	ingestionService := ingestion.NewIngestionService(instrumentRepo, ledgerRepo, m, log)
	portfolioService := portfolio.NewPortfolioService(portfolioRepo, m, log)

	// 4. Start HTTP Server
	staticDir := cfg.StaticDir
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
			log.Warn().Str("dir", staticDir).Msg("Static directory not found, UI disabled")
			staticDir = ""
		}
	}

	httpServer := rest.New(rest.Config{
		Log:            log,
		Addr:           cfg.HTTPAddr,
		Ingester:       ingestionService,
		Viewer:         portfolioService,
		DB:             db,
		Gatherer:       registry,
		StaticDir:      staticDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to serve HTTP server")
		}
	}()

	// 5. Start gRPC Server with logging and AuthInterceptor
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(ingestionService, portfolioService))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("Failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, cfg.ShutdownTimeout, httpServer, grpcServer)
}

// connectDB opens the database, retrying while Postgres is not accepting connections yet
func connectDB(cfg *config.Config, log zerolog.Logger) (*postgres.DB, error) {
	opts := postgres.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}

	var err error
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		var db *postgres.DB
		db, err = postgres.NewDB(cfg.DBConnStr, opts)
		if err == nil {
			return db, nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Database not ready")
		time.Sleep(2 * time.Second)
	}

	return nil, err
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(log zerolog.Logger, timeout time.Duration, httpServer *rest.Server, grpcServer *grpclib.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	grpcServer.GracefulStop()
	log.Info().Msg("Servers stopped")
}
