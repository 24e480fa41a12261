package models

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
)

// Granularity is the output sampling cadence applied uniformly across accounts.
type Granularity string

const (
	GranularityDaily   Granularity = "Daily"
	GranularityWeekly  Granularity = "Weekly"
	GranularityMonthly Granularity = "Monthly"
)

// ParseGranularity accepts the display names (Daily, Weekly, Monthly) and the
// short frequency codes (D, W, M), case-insensitively. Empty means Daily.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily", "d":
		return GranularityDaily, nil
	case "weekly", "w":
		return GranularityWeekly, nil
	case "monthly", "m":
		return GranularityMonthly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
}

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Validate fails with *InvalidRangeError when either bound is not a real
// calendar date (including the zero Date) or Start is after End.
func (r DateRange) Validate() error {
	if !r.Start.IsValid() || !r.End.IsValid() || r.Start.After(r.End) {
		return &InvalidRangeError{Start: r.Start, End: r.End}
	}
	return nil
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	if r.Start.After(r.End) {
		return 0
	}
	return r.End.DaysSince(r.Start) + 1
}

// BalanceRequest is a fully resolved balance query.
type BalanceRequest struct {
	Range       DateRange   `json:"range"`
	Granularity Granularity `json:"granularity"`
}

// BalancePoint is the running balance of one account at the end of one calendar day
// (or, after resampling, at the end of one period).
type BalancePoint struct {
	Date    civil.Date `json:"date"`
	Account string     `json:"account"`
	Balance float64    `json:"balance"`
}

// BalanceTable is the tidy Date | Account | Balance table consumed by chart renderers.
type BalanceTable []BalancePoint

// Accounts returns the distinct accounts in order of first appearance.
func (t BalanceTable) Accounts() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range t {
		if !seen[p.Account] {
			seen[p.Account] = true
			out = append(out, p.Account)
		}
	}
	return out
}

// ForAccount returns the rows belonging to account, preserving order.
func (t BalanceTable) ForAccount(account string) BalanceTable {
	var out BalanceTable
	for _, p := range t {
		if p.Account == account {
			out = append(out, p)
		}
	}
	return out
}

// AccountBalance is the balance of one account over the whole ledger.
type AccountBalance struct {
	Account string  `json:"account"`
	Balance float64 `json:"balance"`
}
