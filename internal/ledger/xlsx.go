package ledger

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/tally/internal/models"
)

// ReadXLSX reads a ledger from an Excel workbook. sheet selects the worksheet;
// empty means the first one. Raw cell values are used so numeric prices keep
// full precision; date cells stored as Excel serial numbers are converted to
// ISO dates.
func ReadXLSX(r io.Reader, name, sheet string) (*models.Ledger, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX ledger: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	return buildLedger(name, rows[0], rows[1:], serialDate)
}

// serialDate converts an Excel serial date to YYYY-MM-DD and passes any other
// value through unchanged.
func serialDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02")
}
