// Package interfaces defines service contracts for Tally
package interfaces

import (
	"context"

	"github.com/bobmcallan/tally/internal/models"
)

// BalanceService reconstructs account balance time series from a ledger.
type BalanceService interface {
	// Normalize parses raw ledger rows and resolves each transaction's sign
	Normalize(ledger *models.Ledger) ([]models.SignedTransaction, error)

	// Reconstruct builds the dense daily balance table for every account over r
	Reconstruct(txs []models.SignedTransaction, r models.DateRange) (models.BalanceTable, error)

	// Resample downsamples a daily table to the given granularity (last value per period)
	Resample(table models.BalanceTable, g models.Granularity) (models.BalanceTable, error)

	// BalanceSeries runs the full normalize, reconstruct, resample pipeline
	BalanceSeries(ctx context.Context, ledger *models.Ledger, req models.BalanceRequest) (models.BalanceTable, error)

	// CurrentBalances returns every account's balance over the whole ledger
	CurrentBalances(txs []models.SignedTransaction) []models.AccountBalance

	// ResolveRange turns a named preset (or explicit custom range) into concrete dates
	ResolveRange(preset string, custom models.DateRange, txs []models.SignedTransaction) (models.DateRange, error)
}

// SpendingService aggregates expenses for the spending panels.
type SpendingService interface {
	// Heatmap totals expenses by calendar month and category
	Heatmap(txs []models.SignedTransaction) models.Heatmap
}
