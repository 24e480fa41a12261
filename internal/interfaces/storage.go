// Package interfaces defines service contracts for Tally
package interfaces

import (
	"context"

	"github.com/bobmcallan/tally/internal/models"
)

// LedgerStore persists raw ledgers by name.
type LedgerStore interface {
	// GetLedger returns an independent copy of the named ledger, or models.ErrLedgerNotFound
	GetLedger(ctx context.Context, name string) (*models.Ledger, error)

	// SaveLedger creates or replaces a ledger
	SaveLedger(ctx context.Context, ledger *models.Ledger) error

	// ListLedgers returns summaries of all stored ledgers, sorted by name
	ListLedgers(ctx context.Context) ([]models.LedgerSummary, error)

	// DeleteLedger removes a ledger; deleting a missing ledger is not an error
	DeleteLedger(ctx context.Context, name string) error

	// Close releases the underlying database
	Close() error
}
