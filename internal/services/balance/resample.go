package balance

import (
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/bobmcallan/tally/internal/models"
)

// Resample downsamples a balance table to the requested granularity.
//
// Daily returns a copy of the table unchanged. Weekly uses Sunday-start weeks
// (Sunday to Saturday) and Monthly uses calendar months. For each account and
// period the balance of the latest row inside the period is emitted, dated at
// the period end (the Saturday, or the last day of the month), even when the
// window stops before that day. Output is sorted by account, then date.
func (s *Service) Resample(table models.BalanceTable, g models.Granularity) (models.BalanceTable, error) {
	var periodEnd func(civil.Date) civil.Date
	switch g {
	case models.GranularityDaily:
		out := make(models.BalanceTable, len(table))
		copy(out, table)
		return out, nil
	case models.GranularityWeekly:
		periodEnd = weekEnd
	case models.GranularityMonthly:
		periodEnd = monthEnd
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownGranularity, g)
	}

	type periodKey struct {
		account string
		end     civil.Date
	}
	type observed struct {
		date    civil.Date
		balance float64
	}

	last := make(map[periodKey]observed)
	keys := make([]periodKey, 0)
	for _, p := range table {
		k := periodKey{account: p.Account, end: periodEnd(p.Date)}
		prev, ok := last[k]
		if !ok {
			keys = append(keys, k)
		}
		// Ties on date keep the later row.
		if !ok || !p.Date.Before(prev.date) {
			last[k] = observed{date: p.Date, balance: p.Balance}
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}
		return keys[i].end.Before(keys[j].end)
	})

	out := make(models.BalanceTable, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.BalancePoint{Date: k.end, Account: k.account, Balance: last[k].balance})
	}
	return out, nil
}

// weekEnd returns the Saturday closing the Sunday-start week that contains d.
func weekEnd(d civil.Date) civil.Date {
	wd := d.In(time.UTC).Weekday()
	return d.AddDays(int(time.Saturday - wd))
}

// monthEnd returns the last day of the calendar month that contains d.
func monthEnd(d civil.Date) civil.Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(first.AddDate(0, 1, -1))
}
