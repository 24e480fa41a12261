// Package models defines data structures for Tally
package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// DefaultAccount is assigned to every row of a ledger that predates multi-account support.
const DefaultAccount = "Checking"

// LedgerRow is one raw row of a tabular ledger, exactly as supplied by the loader.
// Fields are kept as strings; parsing happens in the balance normalizer.
type LedgerRow struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Account  string `json:"account,omitempty"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

// Ledger is the full, unordered collection of raw rows for one named ledger.
type Ledger struct {
	Name       string      `json:"name" badgerhold:"key"`
	HasAccount bool        `json:"has_account"` // false when the source table had no Account column
	Rows       []LedgerRow `json:"rows"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Clone returns a deep copy so a request can own its snapshot.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	c := *l
	c.Rows = make([]LedgerRow, len(l.Rows))
	copy(c.Rows, l.Rows)
	return &c
}

// LedgerSummary is the listing view of a stored ledger.
type LedgerSummary struct {
	Name       string    `json:"name"`
	RowCount   int       `json:"row_count"`
	HasAccount bool      `json:"has_account"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Summary returns the listing view of the ledger.
func (l *Ledger) Summary() LedgerSummary {
	return LedgerSummary{
		Name:       l.Name,
		RowCount:   len(l.Rows),
		HasAccount: l.HasAccount,
		UpdatedAt:  l.UpdatedAt,
	}
}

// Transaction is a parsed ledger row. Amount is a non-negative magnitude.
type Transaction struct {
	ID       string     `json:"id"`
	Date     civil.Date `json:"date"`
	Account  string     `json:"account"`
	Category string     `json:"category"`
	Amount   float64    `json:"amount"`
}

// SignedTransaction is a Transaction with its sign resolved from the category:
// +Amount for inflow categories, -Amount for everything else.
type SignedTransaction struct {
	Transaction
	SignedAmount float64 `json:"signed_amount"`
}

// InflowSet is a membership set of category labels treated as money flowing in.
type InflowSet map[string]struct{}

// NewInflowSet builds an InflowSet from category labels, compared exactly as given.
func NewInflowSet(categories []string) InflowSet {
	set := make(InflowSet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// IsInflow reports whether category is an inflow category.
func (s InflowSet) IsInflow(category string) bool {
	_, ok := s[category]
	return ok
}

// Sign returns the signed amount for a transaction under this set.
func (s InflowSet) Sign(tx Transaction) float64 {
	if s.IsInflow(tx.Category) {
		return tx.Amount
	}
	return -tx.Amount
}
