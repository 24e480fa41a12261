package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := `
environment = "test"

[storage.ledger]
path = "` + filepath.ToSlash(filepath.Join(dir, "ledger")) + `"

[balance]
inflow_categories = ["Income", "Refund"]
workers = 2

[logging]
level = "error"
`
	path := filepath.Join(dir, "tally.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewApp_InitializesAllServices(t *testing.T) {
	a, err := NewApp(writeTestConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Ledgers)
	assert.NotNil(t, a.BalanceService)
	assert.NotNil(t, a.SpendingService)
	assert.Equal(t, []string{"Income", "Refund"}, a.Config.Balance.InflowCategories)
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv("TALLY_CONFIG", "/etc/tally/tally.toml")
	assert.Equal(t, "/etc/tally/tally.toml", ResolveConfigPath(""))
	assert.Equal(t, "explicit.toml", ResolveConfigPath("explicit.toml"))
}

func TestImportLedgerFile(t *testing.T) {
	a, err := NewApp(writeTestConfig(t))
	require.NoError(t, err)
	defer a.Close()

	csvPath := filepath.Join(t.TempDir(), "joint.csv")
	data := "Date,Account,Category,Price\n2023-01-01,Checking,Income,100\n2023-01-02,Checking,Refund,5\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(data), 0644))

	ctx := context.Background()
	n, err := ImportLedgerFile(ctx, a.Ledgers, a.Logger, csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	l, err := a.Ledgers.GetLedger(ctx, "joint")
	require.NoError(t, err)
	txs, err := a.BalanceService.Normalize(l)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 5}, []float64{txs[0].SignedAmount, txs[1].SignedAmount})

	_, err = ImportLedgerFile(ctx, a.Ledgers, a.Logger, csvPath, "renamed")
	require.NoError(t, err)
	_, err = a.Ledgers.GetLedger(ctx, "renamed")
	assert.NoError(t, err)
}

func TestImportLedgerFile_BadFile(t *testing.T) {
	a, err := NewApp(writeTestConfig(t))
	require.NoError(t, err)
	defer a.Close()

	_, err = ImportLedgerFile(context.Background(), a.Ledgers, a.Logger, filepath.Join(t.TempDir(), "nope.csv"), "")
	assert.Error(t, err)
}

func TestImportLedgerDir_SkipsStored(t *testing.T) {
	a, err := NewApp(writeTestConfig(t))
	require.NoError(t, err)
	defer a.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("Date,Category,Price\n2023-01-01,Income,10\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("Date,Price\n2023-01-01,10\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	ctx := context.Background()
	n, err := ImportLedgerDir(ctx, a.Ledgers, a.Logger, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n) // b.csv has no Category column

	n, err = ImportLedgerDir(ctx, a.Ledgers, a.Logger, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	summaries, err := a.Ledgers.ListLedgers(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "a", summaries[0].Name)
}
