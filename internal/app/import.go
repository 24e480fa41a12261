package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/ledger"
	"github.com/bobmcallan/tally/internal/models"
)

// ImportLedgerFile reads a CSV or XLSX ledger from disk and stores it. name
// overrides the ledger name, which otherwise comes from the file name.
// An existing ledger with the same name is replaced. Rows are stored unparsed;
// malformed values surface when balances are requested.
func ImportLedgerFile(ctx context.Context, store interfaces.LedgerStore, logger *common.Logger, filePath, name string) (int, error) {
	l, err := ledger.LoadFile(filePath)
	if err != nil {
		return 0, err
	}
	if name != "" {
		l.Name = name
	}

	if err := store.SaveLedger(ctx, l); err != nil {
		return 0, fmt.Errorf("failed to import ledger %s: %w", filePath, err)
	}

	logger.Info().
		Str("file", filePath).
		Str("ledger", l.Name).
		Int("rows", len(l.Rows)).
		Bool("has_account", l.HasAccount).
		Msg("Ledger imported")
	return len(l.Rows), nil
}

// ImportLedgerDir imports every CSV and XLSX file in dir whose ledger is not
// stored yet, so a seed directory can be pointed at on every start. Files that
// fail to load are logged and skipped. Returns the number of ledgers imported.
func ImportLedgerDir(ctx context.Context, store interfaces.LedgerStore, logger *common.Logger, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read import directory %s: %w", dir, err)
	}

	imported := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))

		if _, err := store.GetLedger(ctx, name); err == nil {
			logger.Debug().Str("ledger", name).Msg("Ledger already stored, skipping import")
			continue
		} else if !errors.Is(err, models.ErrLedgerNotFound) {
			return imported, err
		}

		if _, err := ImportLedgerFile(ctx, store, logger, filepath.Join(dir, e.Name()), name); err != nil {
			logger.Warn().Err(err).Str("file", e.Name()).Msg("Failed to import ledger")
			continue
		}
		imported++
	}

	logger.Info().Str("dir", dir).Int("imported", imported).Msg("Ledger directory import complete")
	return imported, nil
}
