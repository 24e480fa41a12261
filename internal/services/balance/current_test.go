package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/tally/internal/models"
)

func TestCurrentBalances(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{
		signed(t, "2023-01-01", "Checking", 100),
		signed(t, "2023-01-05", "Checking", -40),
		signed(t, "2023-01-02", "Savings", 500),
		signed(t, "2023-01-03", "Credit", -75),
		signed(t, "2023-01-03", "Brokerage", 60),
	}

	got := svc.CurrentBalances(txs)

	assert.Equal(t, []models.AccountBalance{
		{Account: "Savings", Balance: 500},
		{Account: "Brokerage", Balance: 60},
		{Account: "Checking", Balance: 60},
		{Account: "Credit", Balance: -75},
	}, got)
}

func TestCurrentBalances_Empty(t *testing.T) {
	assert.Empty(t, newTestService(1).CurrentBalances(nil))
}
