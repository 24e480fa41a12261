// Package chart renders balance tables as PNG line charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/tally/internal/models"
)

// ErrTooFewDates is returned when the table spans a single date; a line needs two.
var ErrTooFewDates = errors.New("chart needs at least two dates")

// Options controls chart size and title.
type Options struct {
	Title  string
	Width  int
	Height int
}

// seriesColors cycles across accounts in table order.
var seriesColors = []string{
	"2563eb", // blue-600
	"16a34a", // green-600
	"dc2626", // red-600
	"d97706", // amber-600
	"7c3aed", // violet-600
	"0891b2", // cyan-600
	"db2777", // pink-600
	"4b5563", // gray-600
}

// RenderBalances renders one line per account from a tidy balance table and
// returns raw PNG bytes. An empty table yields models.ErrEmptyLedger so callers
// can show a "no data" placeholder.
func RenderBalances(table models.BalanceTable, opts Options) ([]byte, error) {
	if len(table) == 0 {
		return nil, models.ErrEmptyLedger
	}
	if distinctDates(table) < 2 {
		return nil, ErrTooFewDates
	}
	if opts.Width <= 0 {
		opts.Width = 900
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.Title == "" {
		opts.Title = "Account Balances"
	}

	var series []gochart.Series
	for i, account := range table.Accounts() {
		rows := table.ForAccount(account)
		xValues := make([]time.Time, len(rows))
		yValues := make([]float64, len(rows))
		for j, p := range rows {
			xValues[j] = p.Date.In(time.UTC)
			yValues[j] = p.Balance
		}
		series = append(series, gochart.TimeSeries{
			Name: account,
			Style: gochart.Style{
				StrokeColor: drawing.ColorFromHex(seriesColors[i%len(seriesColors)]),
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    drawing.ColorFromHex(seriesColors[i%len(seriesColors)]),
			},
			XValues: xValues,
			YValues: yValues,
		})
	}

	graph := gochart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			TickPosition: gochart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return gochart.TimeFromFloat64(t).Format("02 Jan 06")
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{
		gochart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func distinctDates(table models.BalanceTable) int {
	seen := make(map[string]bool)
	for _, p := range table {
		seen[p.Date.String()] = true
	}
	return len(seen)
}
