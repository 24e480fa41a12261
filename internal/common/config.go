// Package common provides shared utilities for Tally
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/tally/internal/models"
)

// Config holds all configuration for Tally
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Balance     BalanceConfig  `toml:"balance"`
	Spending    SpendingConfig `toml:"spending"`
	Chart       ChartConfig    `toml:"chart"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
	RateBurst int     `toml:"rate_burst"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Ledger AreaConfig `toml:"ledger"` // Imported ledgers (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// BalanceConfig drives the balance reconstruction core.
type BalanceConfig struct {
	DefaultAccount   string   `toml:"default_account"`
	InflowCategories []string `toml:"inflow_categories"`
	Workers          int      `toml:"workers"` // >1 computes accounts concurrently
}

// SpendingConfig drives the spending heatmap.
type SpendingConfig struct {
	NonExpenseCategories []string `toml:"non_expense_categories"`
}

// ChartConfig holds chart rendering defaults
type ChartConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 20,
			RateBurst: 40,
		},
		Storage: StorageConfig{
			Ledger: AreaConfig{Path: "data/ledger"},
		},
		Balance: BalanceConfig{
			DefaultAccount:   models.DefaultAccount,
			InflowCategories: []string{"Income", "Deposit", "Transfer In"},
			Workers:          1,
		},
		Spending: SpendingConfig{
			NonExpenseCategories: []string{"Income", "Transfer In", "Transfer Out"},
		},
		Chart: ChartConfig{
			Width:  900,
			Height: 400,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory, if present, is loaded before overrides
// are applied; variables already set in the environment win.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnvOverrides(config)
	normalize(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TALLY_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TALLY_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TALLY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if rl := os.Getenv("TALLY_RATE_LIMIT"); rl != "" {
		if v, err := strconv.ParseFloat(rl, 64); err == nil {
			config.Server.RateLimit = v
		}
	}

	if level := os.Getenv("TALLY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("TALLY_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if path := os.Getenv("TALLY_DATA_PATH"); path != "" {
		config.Storage.Ledger.Path = filepath.Join(path, "ledger")
	}

	if acct := os.Getenv("TALLY_DEFAULT_ACCOUNT"); acct != "" {
		config.Balance.DefaultAccount = acct
	}

	// Comma-separated; labels are kept as given apart from surrounding whitespace.
	if cats := os.Getenv("TALLY_INFLOW_CATEGORIES"); cats != "" {
		config.Balance.InflowCategories = splitList(cats)
	}

	if w := os.Getenv("TALLY_WORKERS"); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			config.Balance.Workers = n
		}
	}
}

// normalize fills values a config file may have zeroed out.
func normalize(config *Config) {
	if config.Balance.DefaultAccount == "" {
		config.Balance.DefaultAccount = models.DefaultAccount
	}
	if config.Balance.Workers < 1 {
		config.Balance.Workers = 1
	}
	if config.Chart.Width <= 0 {
		config.Chart.Width = 900
	}
	if config.Chart.Height <= 0 {
		config.Chart.Height = 400
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
