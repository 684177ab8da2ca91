// Package workbook reads marketplace extracts and writes the spreadsheet reports.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstr1/internal/domain"
	"gstr1/internal/gst"
)

// HeaderCells locates the supplier GSTIN and reporting period on the sales sheet.
type HeaderCells struct {
	GSTIN string
	Month string
	Year  string
}

// DefaultHeaderCells matches the marketplace tax report layout.
var DefaultHeaderCells = HeaderCells{GSTIN: "C2", Month: "P2", Year: "O2"}

// ReadTable loads the first sheet of an xlsx file, or a csv file, as a RawTable.
func ReadTable(name string, data []byte) (domain.RawTable, error) {
	table := domain.RawTable{Name: name}
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return table, domain.NewMalformedInputError(name, err)
		}
		table.Rows = rows
		return table, nil
	case ".xls":
		return table, domain.NewMalformedInputError(name, errors.New("legacy .xls workbooks are not supported; save as .xlsx"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return table, domain.NewMalformedInputError(name, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return table, domain.NewMalformedInputError(name, err)
	}
	if err := newCellDecoder(f, sheet).decodeRows(rows); err != nil {
		return table, domain.NewMalformedInputError(name, err)
	}
	table.Rows = rows
	return table, nil
}

// ReadHeader extracts the filing header from cells of the sales table.
func ReadHeader(table *domain.RawTable, cells HeaderCells) (domain.FilingHeader, error) {
	var h domain.FilingHeader

	gstin, err := cellValue(table, cells.GSTIN)
	if err != nil {
		return h, err
	}
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if len(gstin) != 15 || !isDigits(gst.SupplierCode(gstin)) {
		return h, fmt.Errorf("%w: %q in %s", domain.ErrInvalidGSTIN, gstin, cells.GSTIN)
	}

	monthRaw, err := cellValue(table, cells.Month)
	if err != nil {
		return h, err
	}
	yearRaw, err := cellValue(table, cells.Year)
	if err != nil {
		return h, err
	}
	month, err := parseMonth(monthRaw)
	if err != nil {
		return h, fmt.Errorf("%w: month %q in %s", domain.ErrInvalidPeriod, monthRaw, cells.Month)
	}
	year, err := parseYear(yearRaw)
	if err != nil {
		return h, fmt.Errorf("%w: year %q in %s", domain.ErrInvalidPeriod, yearRaw, cells.Year)
	}

	return domain.FilingHeader{
		GSTIN:        gstin,
		Month:        month,
		Year:         year,
		SupplierCode: gst.SupplierCode(gstin),
	}, nil
}

func cellValue(table *domain.RawTable, ref string) (string, error) {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return "", fmt.Errorf("invalid header cell reference %q: %w", ref, err)
	}
	return strings.TrimSpace(table.Cell(row-1, col-1)), nil
}

func parseMonth(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() {
		return "", errors.New("month is not a number")
	}
	m := d.IntPart()
	if m < 1 || m > 12 {
		return "", errors.New("month out of range")
	}
	return fmt.Sprintf("%02d", m), nil
}

func parseYear(s string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() || d.IsNegative() {
		return "", errors.New("year is not a number")
	}
	y := d.String()
	if len(y) == 2 {
		y = "20" + y
	}
	if len(y) != 4 {
		return "", errors.New("year must have two or four digits")
	}
	return y, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
