package balance

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/bobmcallan/tally/internal/models"
)

// Range presets offered by the dashboard range picker.
const (
	Preset7D     = "7D"
	Preset1M     = "1M"
	Preset3M     = "3M"
	PresetYTD    = "YTD"
	Preset1Y     = "1Y"
	PresetAll    = "ALL"
	PresetCustom = "CUSTOM"

	DefaultPreset = Preset7D
)

// presetDays maps trailing-window presets to their length in days.
var presetDays = map[string]int{
	Preset7D: 7,
	Preset1M: 30,
	Preset3M: 90,
	Preset1Y: 365,
}

// Presets lists the accepted preset names in display order.
func Presets() []string {
	return []string{Preset7D, Preset1M, Preset3M, PresetYTD, Preset1Y, PresetAll, PresetCustom}
}

// ResolveRange turns a preset into a concrete window anchored on the ledger's
// latest transaction date. Trailing windows never start before the earliest
// transaction. CUSTOM returns the custom range after validating it.
func (s *Service) ResolveRange(preset string, custom models.DateRange, txs []models.SignedTransaction) (models.DateRange, error) {
	key := strings.ToUpper(strings.TrimSpace(preset))
	if key == "" {
		key = DefaultPreset
	}

	if key == PresetCustom {
		// An unset custom range has zero dates and fails validation.
		if err := custom.Validate(); err != nil {
			return models.DateRange{}, err
		}
		return custom, nil
	}

	_, isTrailing := presetDays[key]
	if !isTrailing && key != PresetYTD && key != PresetAll {
		return models.DateRange{}, fmt.Errorf("%w: %q", models.ErrUnknownPreset, preset)
	}

	if len(txs) == 0 {
		return models.DateRange{}, models.ErrEmptyLedger
	}
	earliest, latest := dateBounds(txs)

	switch key {
	case PresetAll:
		return models.DateRange{Start: earliest, End: latest}, nil
	case PresetYTD:
		return models.DateRange{Start: civil.Date{Year: latest.Year, Month: 1, Day: 1}, End: latest}, nil
	default:
		start := latest.AddDays(-(presetDays[key] - 1))
		if start.Before(earliest) {
			start = earliest
		}
		return models.DateRange{Start: start, End: latest}, nil
	}
}

// dateBounds returns the earliest and latest transaction dates. txs must be non-empty.
func dateBounds(txs []models.SignedTransaction) (earliest, latest civil.Date) {
	earliest, latest = txs[0].Date, txs[0].Date
	for _, tx := range txs[1:] {
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}
	return earliest, latest
}
