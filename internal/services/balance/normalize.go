package balance

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tally/internal/models"
)

var errNegativeAmount = errors.New("amount must not be negative")

// dateLayouts are tried in order; any time-of-day component is discarded.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Normalize parses every row of the ledger and attaches its signed amount.
// Rows keep their order. When the ledger carries no account information every
// row is booked to the default account.
func (s *Service) Normalize(ledger *models.Ledger) ([]models.SignedTransaction, error) {
	if ledger == nil || len(ledger.Rows) == 0 {
		return []models.SignedTransaction{}, nil
	}

	multiAccount := ledger.HasAccount && anyAccount(ledger.Rows)

	out := make([]models.SignedTransaction, 0, len(ledger.Rows))
	for i, row := range ledger.Rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, &models.MalformedDataError{Row: i, Field: "Date", Value: row.Date, Err: err}
		}

		amount, err := parseAmount(row.Price)
		if err != nil {
			return nil, &models.MalformedDataError{Row: i, Field: "Price", Value: row.Price, Err: err}
		}

		account := s.defaultAccount
		if multiAccount && strings.TrimSpace(row.Account) != "" {
			account = row.Account
		}

		tx := models.Transaction{
			ID:       row.ID,
			Date:     date,
			Account:  account,
			Category: row.Category,
			Amount:   amount,
		}
		out = append(out, models.SignedTransaction{
			Transaction:  tx,
			SignedAmount: s.inflows.Sign(tx),
		})
	}
	return out, nil
}

func anyAccount(rows []models.LedgerRow) bool {
	for _, r := range rows {
		if strings.TrimSpace(r.Account) != "" {
			return true
		}
	}
	return false
}

func parseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return civil.DateOf(t), nil
		}
		lastErr = err
	}
	return civil.Date{}, lastErr
}

func parseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, errNegativeAmount
	}
	return d.InexactFloat64(), nil
}
