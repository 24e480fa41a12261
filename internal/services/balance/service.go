// Package balance reconstructs per-account running balances from a ledger.
package balance

import (
	"context"
	"time"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
)

// Service implements BalanceService. It holds only configuration; every call
// works on its own inputs and shares no mutable state with other calls.
type Service struct {
	defaultAccount string
	inflows        models.InflowSet
	workers        int
	logger         *common.Logger
}

var _ interfaces.BalanceService = (*Service)(nil)

// NewService creates a balance service from the balance config section.
func NewService(cfg common.BalanceConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	defaultAccount := cfg.DefaultAccount
	if defaultAccount == "" {
		defaultAccount = models.DefaultAccount
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		defaultAccount: defaultAccount,
		inflows:        models.NewInflowSet(cfg.InflowCategories),
		workers:        workers,
		logger:         logger,
	}
}

// BalanceSeries runs Normalize, Reconstruct and Resample for one request.
// Any failure aborts the whole request; no partial table is returned.
func (s *Service) BalanceSeries(ctx context.Context, ledger *models.Ledger, req models.BalanceRequest) (models.BalanceTable, error) {
	start := time.Now()

	if err := req.Range.Validate(); err != nil {
		return nil, err
	}

	txs, err := s.Normalize(ledger)
	if err != nil {
		return nil, err
	}

	daily, err := s.Reconstruct(txs, req.Range)
	if err != nil {
		return nil, err
	}

	out, err := s.Resample(daily, req.Granularity)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("ledger", ledger.Name).
		Str("start", req.Range.Start.String()).
		Str("end", req.Range.End.String()).
		Str("granularity", string(req.Granularity)).
		Int("transactions", len(txs)).
		Int("points", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("Balance series computed")

	return out, nil
}
