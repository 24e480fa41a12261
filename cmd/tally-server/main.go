package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/tally/internal/app"
	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/server"
)

// importList collects repeated -import flags.
type importList []string

func (l *importList) String() string     { return strings.Join(*l, ",") }
func (l *importList) Set(v string) error { *l = append(*l, v); return nil }

func main() {
	var (
		configPath string
		importDir  string
		imports    importList
	)
	flag.StringVar(&configPath, "config", "", "path to tally.toml (default: TALLY_CONFIG, then next to the binary)")
	flag.Var(&imports, "import", "CSV or XLSX ledger to import at startup (repeatable)")
	flag.StringVar(&importDir, "import-dir", "", "import every ledger in this directory not already stored")
	flag.Parse()

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	for _, path := range imports {
		if _, err := app.ImportLedgerFile(context.Background(), a.Ledgers, a.Logger, path, ""); err != nil {
			a.Logger.Error().Err(err).Str("file", path).Msg("Ledger import failed")
		}
	}

	if importDir != "" {
		if _, err := app.ImportLedgerDir(context.Background(), a.Ledgers, a.Logger, importDir); err != nil {
			a.Logger.Error().Err(err).Msg("Ledger directory import failed")
		}
	}

	srv := server.NewServer(a)
	shutdownChan := make(chan struct{}, 1)
	srv.SetShutdownChannel(shutdownChan)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			a.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	a.Logger.Info().
		Str("url", fmt.Sprintf("http://%s", srv.Addr())).
		Msg("Server ready")

	// Wait for interrupt signal or HTTP shutdown request
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
		a.Logger.Info().Msg("Shutdown signal received")
	case <-shutdownChan:
		a.Logger.Info().Msg("Shutdown requested")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	a.Close()
	common.PrintShutdownBanner(a.Logger)
}
