package balance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/models"
)

func TestNormalize_SignClassification(t *testing.T) {
	svc := newTestService(1)
	ledger := multiAccountLedger(
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "Income", Price: "100"},
		models.LedgerRow{Date: "2023-01-02", Account: "A", Category: "Groceries", Price: "30.50"},
		models.LedgerRow{Date: "2023-01-03", Account: "A", Category: "Deposit", Price: "5"},
		models.LedgerRow{Date: "2023-01-04", Account: "A", Category: "Transfer In", Price: "7"},
		models.LedgerRow{Date: "2023-01-05", Account: "A", Category: "Transfer Out", Price: "7"},
	)

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)
	require.Len(t, txs, 5)

	assert.Equal(t, 100.0, txs[0].SignedAmount)
	assert.Equal(t, -30.5, txs[1].SignedAmount)
	assert.Equal(t, 5.0, txs[2].SignedAmount)
	assert.Equal(t, 7.0, txs[3].SignedAmount)
	assert.Equal(t, -7.0, txs[4].SignedAmount)
}

func TestNormalize_CategoryMatchIsExact(t *testing.T) {
	svc := newTestService(1)
	ledger := multiAccountLedger(
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "income", Price: "10"},
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "Income ", Price: "10"},
	)

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)

	assert.Equal(t, -10.0, txs[0].SignedAmount, "case differs from the inflow label")
	assert.Equal(t, -10.0, txs[1].SignedAmount, "trailing space differs from the inflow label")
}

func TestNormalize_ConfiguredInflows(t *testing.T) {
	svc := NewService(common.BalanceConfig{InflowCategories: []string{"Salary"}}, nil)
	ledger := multiAccountLedger(
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "Salary", Price: "10"},
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "Income", Price: "10"},
	)

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)

	assert.Equal(t, 10.0, txs[0].SignedAmount)
	assert.Equal(t, -10.0, txs[1].SignedAmount)
}

func TestNormalize_DefaultAccountWithoutAccountColumn(t *testing.T) {
	svc := newTestService(1)
	ledger := &models.Ledger{
		Name: "legacy",
		Rows: []models.LedgerRow{
			{Date: "2023-01-01", Category: "Income", Price: "10"},
			{Date: "2023-01-02", Account: "ignored", Category: "Rent", Price: "5"},
		},
	}

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)
	for _, tx := range txs {
		assert.Equal(t, "Checking", tx.Account)
	}
}

func TestNormalize_DefaultAccountWhenColumnEmpty(t *testing.T) {
	svc := NewService(common.BalanceConfig{DefaultAccount: "Everyday"}, nil)
	ledger := multiAccountLedger(
		models.LedgerRow{Date: "2023-01-01", Account: "", Category: "Income", Price: "10"},
		models.LedgerRow{Date: "2023-01-02", Account: "  ", Category: "Rent", Price: "5"},
	)

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)
	assert.Equal(t, "Everyday", txs[0].Account)
	assert.Equal(t, "Everyday", txs[1].Account)
}

func TestNormalize_BlankAccountInMultiAccountLedger(t *testing.T) {
	svc := newTestService(1)
	ledger := multiAccountLedger(
		models.LedgerRow{Date: "2023-01-01", Account: "Savings", Category: "Income", Price: "10"},
		models.LedgerRow{Date: "2023-01-02", Account: "", Category: "Rent", Price: "5"},
		models.LedgerRow{Date: "2023-01-03", Account: " Savings", Category: "Rent", Price: "5"},
	)

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)
	assert.Equal(t, "Savings", txs[0].Account)
	assert.Equal(t, "Checking", txs[1].Account)
	assert.Equal(t, " Savings", txs[2].Account, "accounts are kept as given")
}

func TestNormalize_DateLayouts(t *testing.T) {
	svc := newTestService(1)
	inputs := []string{
		"2023-03-05",
		" 2023-03-05 ",
		"2023-03-05T18:30:00",
		"2023-03-05 18:30:00",
		"2023-03-05T23:59:59+10:00",
		"2023/03/05",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			txs, err := svc.Normalize(multiAccountLedger(
				models.LedgerRow{Date: in, Account: "A", Category: "Income", Price: "1"},
			))
			require.NoError(t, err)
			assert.Equal(t, day(t, "2023-03-05"), txs[0].Date)
		})
	}
}

func TestNormalize_MalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		row   models.LedgerRow
		field string
	}{
		{"bad date", models.LedgerRow{Date: "05/03/2023", Category: "Rent", Price: "1"}, "Date"},
		{"empty date", models.LedgerRow{Date: "", Category: "Rent", Price: "1"}, "Date"},
		{"bad price", models.LedgerRow{Date: "2023-03-05", Category: "Rent", Price: "12,50"}, "Price"},
		{"empty price", models.LedgerRow{Date: "2023-03-05", Category: "Rent", Price: ""}, "Price"},
		{"negative price", models.LedgerRow{Date: "2023-03-05", Category: "Rent", Price: "-4"}, "Price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(1)
			ledger := multiAccountLedger(
				models.LedgerRow{Date: "2023-03-01", Category: "Income", Price: "1"},
				tt.row,
			)

			txs, err := svc.Normalize(ledger)
			require.Error(t, err)
			assert.Nil(t, txs, "no partial results")

			var mde *models.MalformedDataError
			require.True(t, errors.As(err, &mde))
			assert.Equal(t, 1, mde.Row)
			assert.Equal(t, tt.field, mde.Field)
		})
	}
}

func TestNormalize_PreservesOrderAndInput(t *testing.T) {
	svc := newTestService(1)
	ledger := multiAccountLedger(
		models.LedgerRow{ID: "3", Date: "2023-01-03", Account: "B", Category: "Rent", Price: "1"},
		models.LedgerRow{ID: "1", Date: "2023-01-01", Account: "A", Category: "Income", Price: "2"},
		models.LedgerRow{ID: "2", Date: "2023-01-02", Account: "A", Category: "Rent", Price: "3"},
	)
	before := ledger.Clone()

	txs, err := svc.Normalize(ledger)
	require.NoError(t, err)

	ids := []string{txs[0].ID, txs[1].ID, txs[2].ID}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
	assert.Equal(t, before, ledger)
}

func TestNormalize_Deterministic(t *testing.T) {
	svc := newTestService(1)
	ledger := multiAccountLedger(
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "Income", Price: "0.1"},
		models.LedgerRow{Date: "2023-01-01", Account: "A", Category: "Fuel", Price: "0.2"},
	)

	first, err := svc.Normalize(ledger)
	require.NoError(t, err)
	second, err := svc.Normalize(ledger)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalize_EmptyLedger(t *testing.T) {
	svc := newTestService(1)

	txs, err := svc.Normalize(&models.Ledger{Name: "empty"})
	require.NoError(t, err)
	assert.Empty(t, txs)

	txs, err = svc.Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
