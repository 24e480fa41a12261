package balance

import (
	"testing"

	"cloud.google.com/go/civil"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/models"
)

func newTestService(workers int) *Service {
	cfg := common.NewDefaultConfig().Balance
	cfg.Workers = workers
	return NewService(cfg, common.NewSilentLogger())
}

func day(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func window(t *testing.T, start, end string) models.DateRange {
	t.Helper()
	return models.DateRange{Start: day(t, start), End: day(t, end)}
}

func signed(t *testing.T, date, account string, amount float64) models.SignedTransaction {
	t.Helper()
	return models.SignedTransaction{
		Transaction:  models.Transaction{Date: day(t, date), Account: account},
		SignedAmount: amount,
	}
}

func multiAccountLedger(rows ...models.LedgerRow) *models.Ledger {
	return &models.Ledger{Name: "test", HasAccount: true, Rows: rows}
}
