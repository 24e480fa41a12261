package ledger

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bobmcallan/tally/internal/models"
)

// ReadCSV reads a comma-separated ledger with a header row.
func ReadCSV(r io.Reader, name string) (*models.Ledger, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded by cell()

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	return buildLedger(name, records[0], records[1:], nil)
}
