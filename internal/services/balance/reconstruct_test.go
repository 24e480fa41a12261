package balance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tally/internal/models"
)

func TestReconstruct_CarryIn(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{
		signed(t, "2023-01-01", "A", 100),
		signed(t, "2023-01-10", "A", -30),
	}

	table, err := svc.Reconstruct(txs, window(t, "2023-01-05", "2023-01-05"))
	require.NoError(t, err)
	require.Len(t, table, 1)

	assert.Equal(t, day(t, "2023-01-05"), table[0].Date)
	assert.Equal(t, "A", table[0].Account)
	assert.Equal(t, 100.0, table[0].Balance)
}

func TestReconstruct_CarryInPlusFirstDayNet(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{
		signed(t, "2023-01-01", "A", 100),
		signed(t, "2023-01-04", "A", -20),
		signed(t, "2023-01-05", "A", 15),
		signed(t, "2023-01-05", "A", -5),
	}

	table, err := svc.Reconstruct(txs, window(t, "2023-01-05", "2023-01-07"))
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, 90.0, table[0].Balance) // 80 carried in + 10 net
	assert.Equal(t, 90.0, table[1].Balance)
	assert.Equal(t, 90.0, table[2].Balance)
}

func TestReconstruct_DenseGridForEveryAccount(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{
		signed(t, "2023-01-02", "Checking", 50),
		signed(t, "2022-06-01", "Savings", 500), // only before the window
		signed(t, "2023-03-01", "Credit", -10),  // only after the window
	}
	r := window(t, "2023-01-01", "2023-01-31")

	table, err := svc.Reconstruct(txs, r)
	require.NoError(t, err)
	require.Len(t, table, 3*31)

	for _, acct := range []string{"Checking", "Credit", "Savings"} {
		rows := table.ForAccount(acct)
		require.Len(t, rows, 31, acct)
		for i, p := range rows {
			assert.Equal(t, r.Start.AddDays(i), p.Date, "%s day %d", acct, i)
		}
	}

	assert.Equal(t, []string{"Checking", "Credit", "Savings"}, table.Accounts())
	for _, p := range table.ForAccount("Savings") {
		assert.Equal(t, 500.0, p.Balance, "flat at carry-in")
	}
	for _, p := range table.ForAccount("Credit") {
		assert.Equal(t, 0.0, p.Balance, "future transactions are ignored")
	}
}

func TestReconstruct_CumulativeConsistency(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{
		signed(t, "2023-02-01", "A", 1000),
		signed(t, "2023-02-03", "A", -12.34),
		signed(t, "2023-02-03", "A", -7.66),
		signed(t, "2023-02-10", "A", 250),
		signed(t, "2023-02-11", "A", -0.1),
		signed(t, "2023-02-28", "A", -0.2),
	}
	r := window(t, "2023-02-01", "2023-02-28")

	table, err := svc.Reconstruct(txs, r)
	require.NoError(t, err)

	net := make(map[string]float64)
	for _, tx := range txs {
		net[tx.Date.String()] += tx.SignedAmount
	}
	for i := 1; i < len(table); i++ {
		diff := table[i].Balance - table[i-1].Balance
		assert.InDelta(t, net[table[i].Date.String()], diff, 1e-9, "day %s", table[i].Date)
	}
	assert.InDelta(t, 1230.0-0.3, table[len(table)-1].Balance, 1e-9)
}

func TestReconstruct_SingleDayWindow(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{
		signed(t, "2023-01-01", "A", 10),
		signed(t, "2023-01-02", "A", 5),
		signed(t, "2023-01-02", "B", -3),
	}

	table, err := svc.Reconstruct(txs, window(t, "2023-01-02", "2023-01-02"))
	require.NoError(t, err)
	require.Len(t, table, 2)

	assert.Equal(t, models.BalancePoint{Date: day(t, "2023-01-02"), Account: "A", Balance: 15}, table[0])
	assert.Equal(t, models.BalancePoint{Date: day(t, "2023-01-02"), Account: "B", Balance: -3}, table[1])
}

func TestReconstruct_EmptyLedger(t *testing.T) {
	svc := newTestService(1)

	table, err := svc.Reconstruct(nil, window(t, "2023-01-01", "2023-01-31"))
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Empty(t, table)
}

func TestReconstruct_InvalidRange(t *testing.T) {
	svc := newTestService(1)
	txs := []models.SignedTransaction{signed(t, "2023-01-01", "A", 10)}

	for _, in := range [][]models.SignedTransaction{txs, nil} {
		table, err := svc.Reconstruct(in, window(t, "2023-01-02", "2023-01-01"))
		require.Error(t, err)
		assert.Nil(t, table)

		var ire *models.InvalidRangeError
		require.True(t, errors.As(err, &ire))
		assert.Equal(t, day(t, "2023-01-02"), ire.Start)
	}
}

func TestReconstruct_UnorderedInput(t *testing.T) {
	svc := newTestService(1)
	ordered := []models.SignedTransaction{
		signed(t, "2023-01-01", "A", 10),
		signed(t, "2023-01-03", "B", 20),
		signed(t, "2023-01-05", "A", -4),
	}
	shuffled := []models.SignedTransaction{ordered[2], ordered[0], ordered[1]}
	r := window(t, "2023-01-02", "2023-01-06")

	want, err := svc.Reconstruct(ordered, r)
	require.NoError(t, err)
	got, err := svc.Reconstruct(shuffled, r)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReconstruct_ConcurrentMatchesSequential(t *testing.T) {
	var txs []models.SignedTransaction
	for a := 0; a < 12; a++ {
		acct := fmt.Sprintf("acct-%02d", a)
		for d := 1; d <= 28; d += 3 {
			txs = append(txs, signed(t, fmt.Sprintf("2023-02-%02d", d), acct, float64(a*d)-40))
		}
	}
	r := window(t, "2023-02-05", "2023-03-10")

	want, err := newTestService(1).Reconstruct(txs, r)
	require.NoError(t, err)
	got, err := newTestService(4).Reconstruct(txs, r)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Len(t, got, 12*r.Days())
}

func TestGenerateCalendarDates(t *testing.T) {
	dates := generateCalendarDates(window(t, "2024-02-27", "2024-03-02"))

	require.Len(t, dates, 5)
	assert.Equal(t, day(t, "2024-02-29"), dates[2], "leap day included")
	assert.Equal(t, day(t, "2024-03-02"), dates[4])

	assert.Nil(t, generateCalendarDates(window(t, "2024-03-02", "2024-02-27")))
}
