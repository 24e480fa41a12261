// Package ledger reads tabular ledgers (CSV or XLSX) into raw ledger rows.
//
// Required columns are Date, Category and Price; Account is optional. Header
// names are matched case-insensitively after trimming and extra columns are
// ignored. Cell values are not parsed here: that is the balance normalizer's job.
package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/tally/internal/models"
)

// Column names of the tabular ledger.
const (
	ColumnDate     = "Date"
	ColumnAccount  = "Account"
	ColumnCategory = "Category"
	ColumnPrice    = "Price"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrNoHeader          = errors.New("ledger has no header row")
	ErrUnsupportedFormat = errors.New("unsupported ledger format")
)

// columnIndex maps the ledger columns to positions in a header row. -1 means absent.
type columnIndex struct {
	date, account, category, price int
}

func indexHeader(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, account: -1, category: -1, price: -1}
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(name, ColumnDate) && idx.date < 0:
			idx.date = i
		case strings.EqualFold(name, ColumnAccount) && idx.account < 0:
			idx.account = i
		case strings.EqualFold(name, ColumnCategory) && idx.category < 0:
			idx.category = i
		case strings.EqualFold(name, ColumnPrice) && idx.price < 0:
			idx.price = i
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, ColumnDate)
	}
	if idx.category < 0 {
		missing = append(missing, ColumnCategory)
	}
	if idx.price < 0 {
		missing = append(missing, ColumnPrice)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// buildLedger turns a header plus data records into a Ledger. Fully blank
// records (trailing spreadsheet rows) are skipped.
func buildLedger(name string, header []string, records [][]string, dateCell func(string) string) (*models.Ledger, error) {
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ledger := &models.Ledger{
		Name:       name,
		HasAccount: idx.account >= 0,
		Rows:       make([]models.LedgerRow, 0, len(records)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		date := cell(rec, idx.date)
		if dateCell != nil {
			date = dateCell(date)
		}
		ledger.Rows = append(ledger.Rows, models.LedgerRow{
			ID:       uuid.NewString(),
			Date:     date,
			Account:  cell(rec, idx.account),
			Category: cell(rec, idx.category),
			Price:    cell(rec, idx.price),
		})
	}
	return ledger, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// LoadFile reads a ledger from disk, choosing the reader by file extension.
// The ledger is named after the file without its extension.
func LoadFile(path string) (*models.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch ext {
	case ".csv":
		return ReadCSV(f, name)
	case ".xlsx":
		return ReadXLSX(f, name, "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}
