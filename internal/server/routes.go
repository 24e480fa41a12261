package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/bobmcallan/tally/internal/common"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Ledgers
	mux.HandleFunc("/api/ledgers/", s.routeLedgers)
	mux.HandleFunc("/api/ledgers", s.handleLedgerList)
}

// routeLedgers dispatches /api/ledgers/{name}/* to the appropriate handler.
func (s *Server) routeLedgers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/ledgers/")
	if path == "" {
		s.handleLedgerList(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	name := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = strings.TrimSuffix(parts[1], "/")
	}

	switch subpath {
	case "":
		s.handleLedger(w, r, name)
	case "balances":
		s.handleBalances(w, r, name)
	case "balances/chart":
		s.handleBalanceChart(w, r, name)
	case "current":
		s.handleCurrentBalances(w, r, name)
	case "heatmap":
		s.handleHeatmap(w, r, name)
	default:
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(s.app.StartupTime).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}
