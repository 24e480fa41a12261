// Package app wires configuration, storage and services into one App.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/services/balance"
	"github.com/bobmcallan/tally/internal/services/spending"
	"github.com/bobmcallan/tally/internal/storage/badger"
)

// App holds all initialized services and storage.
// It is the shared core used by cmd/tally-server.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Ledgers         interfaces.LedgerStore
	BalanceService  interfaces.BalanceService
	SpendingService interfaces.SpendingService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: explicit path, TALLY_CONFIG, tally.toml
// next to the binary, then config/tally.toml for development.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("TALLY_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "tally.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/tally.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads config and opens storage. configPath may be empty, in which
// case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Ledger.Path != "" && !filepath.IsAbs(config.Storage.Ledger.Path) {
		config.Storage.Ledger.Path = filepath.Join(getBinaryDir(), config.Storage.Ledger.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	ledgers, err := badger.OpenLedgerStorage(logger, config.Storage.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return New(config, logger, ledgers), nil
}

// New assembles an App from already-built parts.
func New(config *common.Config, logger *common.Logger, ledgers interfaces.LedgerStore) *App {
	startupStart := time.Now()

	a := &App{
		Config:          config,
		Logger:          logger,
		Ledgers:         ledgers,
		BalanceService:  balance.NewService(config.Balance, logger),
		SpendingService: spending.NewService(config.Spending, logger),
		StartupTime:     startupStart,
	}

	logger.Info().
		Strs("inflow_categories", config.Balance.InflowCategories).
		Int("workers", config.Balance.Workers).
		Msg("App initialized")
	return a
}

// Close releases storage.
func (a *App) Close() {
	if a.Ledgers != nil {
		if err := a.Ledgers.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close ledger storage")
		}
	}
}
