package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/bobmcallan/tally/internal/ledger"
	"github.com/bobmcallan/tally/internal/models"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeMalformedData      = "malformed_data"
	CodeInvalidRange       = "invalid_range"
	CodeInvalidDate        = "invalid_date"
	CodeUnknownGranularity = "unknown_granularity"
	CodeUnknownPreset      = "unknown_preset"
	CodeInvalidLedger      = "invalid_ledger"
	CodeNotFound           = "not_found"
	CodeRateLimited        = "rate_limited"
	CodeInternal           = "internal"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// errorStatus maps a domain error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	var malformed *models.MalformedDataError
	var invalidRange *models.InvalidRangeError
	switch {
	case errors.As(err, &malformed):
		return http.StatusUnprocessableEntity, CodeMalformedData
	case errors.As(err, &invalidRange):
		return http.StatusBadRequest, CodeInvalidRange
	case errors.Is(err, errInvalidDate):
		return http.StatusBadRequest, CodeInvalidDate
	case errors.Is(err, models.ErrUnknownGranularity):
		return http.StatusBadRequest, CodeUnknownGranularity
	case errors.Is(err, models.ErrUnknownPreset):
		return http.StatusBadRequest, CodeUnknownPreset
	case errors.Is(err, models.ErrLedgerNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ledger.ErrMissingColumn), errors.Is(err, ledger.ErrNoHeader):
		return http.StatusBadRequest, CodeInvalidLedger
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// WriteDomainError writes err with the status and code errorStatus picks for it.
func WriteDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	WriteErrorWithCode(w, status, err.Error(), code)
}

// queryDate parses an optional YYYY-MM-DD query parameter. ok is false when absent.
func queryDate(r *http.Request, key string) (d civil.Date, ok bool, err error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return civil.Date{}, false, nil
	}
	d, err = civil.ParseDate(v)
	return d, true, err
}
