package models

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

var (
	// ErrEmptyLedger marks the soft empty-ledger case. The core returns an empty
	// table rather than this error; renderers use it to signal "no data".
	ErrEmptyLedger = errors.New("ledger has no transactions")

	ErrUnknownGranularity = errors.New("unknown granularity")
	ErrUnknownPreset      = errors.New("unknown range preset")
	ErrLedgerNotFound     = errors.New("ledger not found")
)

// MalformedDataError reports a ledger row whose date or amount cannot be parsed.
// The whole computation is aborted when it occurs.
type MalformedDataError struct {
	Row   int    // zero-based row index in the ledger
	Field string // "Date" or "Price"
	Value string
	Err   error
}

func (e *MalformedDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s %q in row %d: %v", e.Field, e.Value, e.Row, e.Err)
	}
	return fmt.Sprintf("malformed %s %q in row %d", e.Field, e.Value, e.Row)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

// InvalidRangeError reports a window with an unset or impossible bound, or
// whose start is after its end.
type InvalidRangeError struct {
	Start civil.Date
	End   civil.Date
}

func (e *InvalidRangeError) Error() string {
	if !e.Start.IsValid() || !e.End.IsValid() {
		return fmt.Sprintf("invalid range: start %q and end %q must both be valid dates", e.Start, e.End)
	}
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}
