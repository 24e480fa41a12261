package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
)

// LedgerStorage persists raw ledgers keyed by name.
type LedgerStorage struct {
	store  *Store
	logger *common.Logger
}

var _ interfaces.LedgerStore = (*LedgerStorage)(nil)

// NewLedgerStorage creates a LedgerStore backed by BadgerHold.
func NewLedgerStorage(store *Store, logger *common.Logger) *LedgerStorage {
	return &LedgerStorage{store: store, logger: logger}
}

// OpenLedgerStorage opens the badger directory at path and returns its ledger storage.
func OpenLedgerStorage(logger *common.Logger, path string) (*LedgerStorage, error) {
	store, err := NewStore(logger, path)
	if err != nil {
		return nil, err
	}
	return NewLedgerStorage(store, logger), nil
}

func (s *LedgerStorage) GetLedger(_ context.Context, name string) (*models.Ledger, error) {
	var ledger models.Ledger
	if err := s.store.db.Get(name, &ledger); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrLedgerNotFound, name)
		}
		return nil, fmt.Errorf("failed to get ledger '%s': %w", name, err)
	}
	ledger.Name = name
	// Decoded fresh on every read, so the caller owns this copy.
	return &ledger, nil
}

func (s *LedgerStorage) SaveLedger(_ context.Context, ledger *models.Ledger) error {
	if ledger == nil || ledger.Name == "" {
		return fmt.Errorf("ledger name is required")
	}

	now := time.Now()
	record := ledger.Clone()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := s.store.db.Upsert(record.Name, record); err != nil {
		return fmt.Errorf("failed to save ledger '%s': %w", record.Name, err)
	}

	s.logger.Info().Str("ledger", record.Name).Int("rows", len(record.Rows)).Msg("Ledger saved")
	return nil
}

func (s *LedgerStorage) ListLedgers(_ context.Context) ([]models.LedgerSummary, error) {
	var ledgers []models.Ledger
	if err := s.store.db.Find(&ledgers, nil); err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}

	out := make([]models.LedgerSummary, 0, len(ledgers))
	for i := range ledgers {
		out = append(out, ledgers[i].Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *LedgerStorage) DeleteLedger(_ context.Context, name string) error {
	err := s.store.db.Delete(name, models.Ledger{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete ledger '%s': %w", name, err)
	}
	return nil
}

func (s *LedgerStorage) Close() error {
	return s.store.Close()
}
