// Package spending aggregates expenses for the dashboard's spending panels.
package spending

import (
	"sort"
	"strings"

	"github.com/bobmcallan/tally/internal/common"
	"github.com/bobmcallan/tally/internal/interfaces"
	"github.com/bobmcallan/tally/internal/models"
)

// Service implements SpendingService.
type Service struct {
	nonExpense map[string]struct{}
	logger     *common.Logger
}

var _ interfaces.SpendingService = (*Service)(nil)

// NewService creates a spending service from the spending config section.
func NewService(cfg common.SpendingConfig, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	nonExpense := make(map[string]struct{}, len(cfg.NonExpenseCategories))
	for _, c := range cfg.NonExpenseCategories {
		nonExpense[strings.TrimSpace(c)] = struct{}{}
	}
	return &Service{nonExpense: nonExpense, logger: logger}
}

// Heatmap totals transaction amounts by calendar month (1-12, all years folded
// together) and category. Categories are trimmed before grouping; non-expense
// categories are excluded. Rows and columns are sorted ascending.
func (s *Service) Heatmap(txs []models.SignedTransaction) models.Heatmap {
	type cell struct {
		month    int
		category string
	}
	totals := make(map[cell]float64)
	months := make(map[int]bool)
	categories := make(map[string]bool)

	for _, tx := range txs {
		category := strings.TrimSpace(tx.Category)
		if _, skip := s.nonExpense[category]; skip {
			continue
		}
		month := int(tx.Date.Month)
		totals[cell{month, category}] += tx.Amount
		months[month] = true
		categories[category] = true
	}

	if len(totals) == 0 {
		return models.Heatmap{}
	}

	h := models.Heatmap{
		Months:     sortedInts(months),
		Categories: sortedStrings(categories),
	}
	catIndex := make(map[string]int, len(h.Categories))
	for i, c := range h.Categories {
		catIndex[c] = i
	}
	monthIndex := make(map[int]int, len(h.Months))
	for i, m := range h.Months {
		monthIndex[m] = i
	}

	h.Cells = make([][]float64, len(h.Months))
	for i := range h.Cells {
		h.Cells[i] = make([]float64, len(h.Categories))
	}
	for k, v := range totals {
		h.Cells[monthIndex[k.month]][catIndex[k.category]] = v
	}

	s.logger.Debug().Int("months", len(h.Months)).Int("categories", len(h.Categories)).Msg("Spending heatmap computed")
	return h
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
