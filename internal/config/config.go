// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DBConnStr       string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	HTTPAddr        string
	GRPCAddr        string
	APIToken        string
	LogLevel        string
	LogPretty       bool
	StaticDir       string // Served at "/" when non-empty
	SeedFile        string // YAML categories/instruments applied at startup when non-empty
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := &Config{
		DBConnStr:       getEnv("DB_CONN_STR", ""),
		DBMaxOpenConns:  env.getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  env.getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:   env.getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
		APIToken:        getEnv("API_TOKEN", "dev-token"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       env.getEnvAsBool("LOG_PRETTY", false),
		StaticDir:       getEnv("STATIC_DIR", "./static"),
		SeedFile:        getEnv("SEED_FILE", ""),
		MaxUploadBytes:  env.getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
		ShutdownTimeout: env.getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	// If explicit string is missing, build it from individual vars (Docker friendly)
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "my_assets"),
		)
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR cannot be empty")
	}
	if c.GRPCAddr == "" {
		return errors.New("GRPC_ADDR cannot be empty")
	}
	if c.APIToken == "" {
		return errors.New("API_TOKEN cannot be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.DBMaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.DBMaxIdleConns < 0 {
		return errors.New("DB_MAX_IDLE_CONNS cannot be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envReader parses typed environment variables, collecting every malformed value.
// Unset or empty variables take the fallback.
type envReader struct {
	errs []error
}

func (r *envReader) fail(key, raw string, err error) {
	r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
}

func (r *envReader) getEnvAsInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return value
}

func (r *envReader) getEnvAsInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return value
}

func (r *envReader) getEnvAsBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return value
}

func (r *envReader) getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, raw, err)
		return fallback
	}
	return value
}
