// Command tally prints the balance time series of a CSV or XLSX ledger.
//
//	tally -ledger household.csv -range 3M -granularity Weekly
//	tally -ledger household.xlsx -from 2023-01-01 -to 2023-03-31 -format csv
//	tally -ledger household.csv -range ALL -chart balances.png
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bobmcallan/tally/internal/app"
	"github.com/bobmcallan/tally/internal/chart"
	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/ledger"
	"github.com/bobmcallan/tally/internal/models"
	"github.com/bobmcallan/tally/internal/services/balance"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	ledgerPath  string
	preset      string
	from, to    string
	granularity string
	format      string
	chartPath   string
	current     bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tally", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to tally.toml")
	fs.StringVar(&o.ledgerPath, "ledger", "", "CSV or XLSX ledger file (required)")
	fs.StringVar(&o.preset, "range", "", "range preset: "+strings.Join(balance.Presets(), ", "))
	fs.StringVar(&o.from, "from", "", "custom range start (YYYY-MM-DD)")
	fs.StringVar(&o.to, "to", "", "custom range end (YYYY-MM-DD)")
	fs.StringVar(&o.granularity, "granularity", "Daily", "Daily, Weekly or Monthly")
	fs.StringVar(&o.format, "format", "table", "output format: table, csv or json")
	fs.StringVar(&o.chartPath, "chart", "", "also write a PNG chart to this path")
	fs.BoolVar(&o.current, "current", false, "print current balances instead of the series")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.ledgerPath == "" {
		fs.Usage()
		return o, errors.New("-ledger is required")
	}
	switch o.format {
	case "table", "csv", "json":
	default:
		return o, fmt.Errorf("unknown format %q", o.format)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "tally: %v\n", err)
		}
		return exitUsage
	}

	cfg, err := common.LoadConfig(app.ResolveConfigPath(o.configPath))
	if err != nil {
		fmt.Fprintf(stderr, "tally: %v\n", err)
		return exitError
	}
	svc := balance.NewService(cfg.Balance, common.NewLoggerFromConfig(cfg.Logging))

	if err := execute(context.Background(), svc, cfg, o, stdout); err != nil {
		fmt.Fprintf(stderr, "tally: %v\n", err)
		return exitError
	}
	return exitOK
}

func execute(ctx context.Context, svc *balance.Service, cfg *common.Config, o options, stdout io.Writer) error {
	g, err := models.ParseGranularity(o.granularity)
	if err != nil {
		return err
	}
	custom, preset, err := customRange(o)
	if err != nil {
		return err
	}

	l, err := ledger.LoadFile(o.ledgerPath)
	if err != nil {
		return err
	}
	txs, err := svc.Normalize(l)
	if err != nil {
		return err
	}

	if o.current {
		return writeCurrent(stdout, o.format, svc.CurrentBalances(txs))
	}

	rng, err := svc.ResolveRange(preset, custom, txs)
	if errors.Is(err, models.ErrEmptyLedger) {
		fmt.Fprintln(stdout, "No transactions.")
		return nil
	}
	if err != nil {
		return err
	}

	series, err := svc.BalanceSeries(ctx, l, models.BalanceRequest{Range: rng, Granularity: g})
	if err != nil {
		return err
	}
	if err := writeSeries(stdout, o.format, series); err != nil {
		return err
	}

	if o.chartPath != "" {
		png, err := chart.RenderBalances(series, chart.Options{
			Title:  l.Name,
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
		})
		if err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		if err := os.WriteFile(o.chartPath, png, 0644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
	}
	return nil
}

// customRange parses -from/-to. Giving either one without -range selects CUSTOM.
func customRange(o options) (models.DateRange, string, error) {
	preset := strings.TrimSpace(o.preset)
	if o.from == "" && o.to == "" {
		if strings.EqualFold(preset, balance.PresetCustom) {
			return models.DateRange{}, preset, errors.New("-from and -to are required for a custom range")
		}
		return models.DateRange{}, preset, nil
	}
	if preset == "" {
		preset = balance.PresetCustom
	}
	if o.from == "" || o.to == "" {
		return models.DateRange{}, preset, errors.New("-from and -to must be given together")
	}
	start, err := civil.ParseDate(o.from)
	if err != nil {
		return models.DateRange{}, preset, fmt.Errorf("invalid -from: %w", err)
	}
	end, err := civil.ParseDate(o.to)
	if err != nil {
		return models.DateRange{}, preset, fmt.Errorf("invalid -to: %w", err)
	}
	return models.DateRange{Start: start, End: end}, preset, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeSeries(w io.Writer, format string, series models.BalanceTable) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	case "csv":
		cw := csv.NewWriter(w)
		cw.Write([]string{"Date", "Account", "Balance"})
		for _, p := range series {
			cw.Write([]string{p.Date.String(), p.Account, formatAmount(p.Balance)})
		}
		cw.Flush()
		return cw.Error()
	default:
		t := newTable("Date", "Account", "Balance")
		for _, p := range series {
			t.Row(p.Date.String(), p.Account, formatAmount(p.Balance))
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
}

func writeCurrent(w io.Writer, format string, balances []models.AccountBalance) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(balances)
	case "csv":
		cw := csv.NewWriter(w)
		cw.Write([]string{"Account", "Balance"})
		for _, b := range balances {
			cw.Write([]string{b.Account, formatAmount(b.Balance)})
		}
		cw.Flush()
		return cw.Error()
	default:
		t := newTable("Account", "Balance")
		for _, b := range balances {
			t.Row(b.Account, formatAmount(b.Balance))
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
