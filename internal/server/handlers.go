package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/bobmcallan/tally/internal/chart"
	"github.com/bobmcallan/tally/internal/ledger"
	"github.com/bobmcallan/tally/internal/models"
	"github.com/bobmcallan/tally/internal/services/balance"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxLedgerBytes = 32 << 20
)

var errInvalidDate = errors.New("invalid date")

// --- Ledger handlers ---

func (s *Server) handleLedgerList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ledgers, err := s.app.Ledgers.ListLedgers(r.Context())
	if err != nil {
		WriteDomainError(w, fmt.Errorf("error listing ledgers: %w", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ledgers": ledgers,
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request, name string) {
	switch r.Method {
	case http.MethodGet:
		l, err := s.app.Ledgers.GetLedger(r.Context(), name)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, l.Summary())
	case http.MethodPut:
		s.handleLedgerImport(w, r, name)
	case http.MethodDelete:
		if err := s.app.Ledgers.DeleteLedger(r.Context(), name); err != nil {
			WriteDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleLedgerImport replaces the named ledger with the request body: a CSV
// table, or an XLSX workbook when the content type says so (?sheet= selects
// the worksheet).
func (s *Server) handleLedgerImport(w http.ResponseWriter, r *http.Request, name string) {
	if r.Body == nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "Request body is required", CodeInvalidLedger)
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxLedgerBytes)

	var (
		l   *models.Ledger
		err error
	)
	if isXLSX(r.Header.Get("Content-Type")) {
		l, err = ledger.ReadXLSX(body, name, r.URL.Query().Get("sheet"))
	} else {
		l, err = ledger.ReadCSV(body, name)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorWithCode(w, http.StatusRequestEntityTooLarge, err.Error(), CodeInvalidLedger)
			return
		}
		status, code := errorStatus(err)
		if status == http.StatusInternalServerError {
			status, code = http.StatusBadRequest, CodeInvalidLedger
		}
		WriteErrorWithCode(w, status, err.Error(), code)
		return
	}

	if err := s.app.Ledgers.SaveLedger(r.Context(), l); err != nil {
		WriteDomainError(w, fmt.Errorf("error saving ledger: %w", err))
		return
	}

	s.logger.Info().
		Str("ledger", name).
		Int("rows", len(l.Rows)).
		Bool("has_account", l.HasAccount).
		Msg("Ledger imported")

	saved, err := s.app.Ledgers.GetLedger(r.Context(), name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved.Summary())
}

func isXLSX(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == contentTypeXLSX
}

// --- Balance handlers ---

// balanceSeriesResponse is the tidy table plus the window it was computed over.
// Range is nil when the ledger has no transactions.
type balanceSeriesResponse struct {
	Ledger      string              `json:"ledger"`
	Range       *models.DateRange   `json:"range"`
	Granularity models.Granularity  `json:"granularity"`
	Accounts    []string            `json:"accounts"`
	Rows        models.BalanceTable `json:"rows"`
}

// balanceSeries loads the ledger, resolves the query into a concrete request
// and computes the table. An empty ledger yields an empty response, not an error.
func (s *Server) balanceSeries(r *http.Request, name string) (*balanceSeriesResponse, error) {
	q := r.URL.Query()

	g, err := models.ParseGranularity(q.Get("granularity"))
	if err != nil {
		return nil, err
	}

	from, hasFrom, err := queryDate(r, "from")
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", errInvalidDate, err)
	}
	to, hasTo, err := queryDate(r, "to")
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", errInvalidDate, err)
	}

	preset := strings.TrimSpace(q.Get("range"))
	if preset == "" && (hasFrom || hasTo) {
		preset = balance.PresetCustom
	}
	if strings.EqualFold(preset, balance.PresetCustom) && !(hasFrom && hasTo) {
		return nil, fmt.Errorf("%w: from and to are required for a custom range", errInvalidDate)
	}

	l, err := s.app.Ledgers.GetLedger(r.Context(), name)
	if err != nil {
		return nil, err
	}

	resp := &balanceSeriesResponse{
		Ledger:      name,
		Granularity: g,
		Accounts:    []string{},
		Rows:        models.BalanceTable{},
	}

	txs, err := s.app.BalanceService.Normalize(l)
	if err != nil {
		return nil, err
	}
	rng, err := s.app.BalanceService.ResolveRange(preset, models.DateRange{Start: from, End: to}, txs)
	if errors.Is(err, models.ErrEmptyLedger) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp.Range = &rng

	table, err := s.app.BalanceService.BalanceSeries(r.Context(), l, models.BalanceRequest{Range: rng, Granularity: g})
	if err != nil {
		return nil, err
	}
	if len(table) > 0 {
		resp.Rows = table
		resp.Accounts = table.Accounts()
	}
	return resp, nil
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := s.balanceSeries(r, name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleBalanceChart renders the balance series as PNG. No content is returned
// when there is nothing to draw.
func (s *Server) handleBalanceChart(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp, err := s.balanceSeries(r, name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	png, err := chart.RenderBalances(resp.Rows, chart.Options{
		Title:  name,
		Width:  s.app.Config.Chart.Width,
		Height: s.app.Config.Chart.Height,
	})
	if errors.Is(err, models.ErrEmptyLedger) || errors.Is(err, chart.ErrTooFewDates) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleCurrentBalances(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	txs, err := s.ledgerTransactions(r, name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	balances := s.app.BalanceService.CurrentBalances(txs)
	var total float64
	for _, b := range balances {
		total += b.Balance
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ledger":   name,
		"balances": balances,
		"total":    total,
	})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	txs, err := s.ledgerTransactions(r, name)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, s.app.SpendingService.Heatmap(txs))
}

func (s *Server) ledgerTransactions(r *http.Request, name string) ([]models.SignedTransaction, error) {
	l, err := s.app.Ledgers.GetLedger(r.Context(), name)
	if err != nil {
		return nil, err
	}
	return s.app.BalanceService.Normalize(l)
}
