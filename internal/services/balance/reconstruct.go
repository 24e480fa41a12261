package balance

import (
	"sort"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/tally/internal/models"
)

// Reconstruct builds one row per (account, day) over r for every account seen
// anywhere in txs, including accounts with no activity inside the window.
// The first day's balance carries in everything booked before r.Start.
// Rows are sorted by account, then date.
func (s *Service) Reconstruct(txs []models.SignedTransaction, r models.DateRange) (models.BalanceTable, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return models.BalanceTable{}, nil
	}

	byAccount := make(map[string][]models.SignedTransaction)
	for _, tx := range txs {
		byAccount[tx.Account] = append(byAccount[tx.Account], tx)
	}
	accounts := make([]string, 0, len(byAccount))
	for acct := range byAccount {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)

	dates := generateCalendarDates(r)

	// Each slot is written by exactly one worker.
	series := make([]models.BalanceTable, len(accounts))
	if s.workers > 1 && len(accounts) > 1 {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i, acct := range accounts {
			i, acct := i, acct
			g.Go(func() error {
				series[i] = accountSeries(acct, byAccount[acct], r, dates)
				return nil
			})
		}
		_ = g.Wait() // workers never fail
	} else {
		for i, acct := range accounts {
			series[i] = accountSeries(acct, byAccount[acct], r, dates)
		}
	}

	out := make(models.BalanceTable, 0, len(accounts)*len(dates))
	for _, rows := range series {
		out = append(out, rows...)
	}
	return out, nil
}

// accountSeries computes the dense daily series for a single account.
func accountSeries(account string, txs []models.SignedTransaction, r models.DateRange, dates []civil.Date) models.BalanceTable {
	var carryIn float64
	net := make(map[civil.Date]float64)
	for _, tx := range txs {
		switch {
		case tx.Date.Before(r.Start):
			carryIn += tx.SignedAmount
		case tx.Date.After(r.End):
			// beyond the window
		default:
			net[tx.Date] += tx.SignedAmount
		}
	}

	rows := make(models.BalanceTable, 0, len(dates))
	running := carryIn
	for _, d := range dates {
		running += net[d]
		rows = append(rows, models.BalancePoint{Date: d, Account: account, Balance: running})
	}
	return rows
}

// generateCalendarDates produces one date per day from r.Start to r.End (inclusive).
func generateCalendarDates(r models.DateRange) []civil.Date {
	if r.End.Before(r.Start) {
		return nil
	}
	dates := make([]civil.Date, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
