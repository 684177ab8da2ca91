package workbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// numFmtKind is how a number format changes the meaning of a stored number.
type numFmtKind int

const (
	fmtPlain numFmtKind = iota
	fmtPercent
	fmtDate
)

// Built-in number format ids that display a date or time.
var builtinDateFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// quotedOrBracketed matches literal text and [color]/[locale] sections of a format code.
var quotedOrBracketed = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// cellDecoder turns raw stored values into text Normalize understands.
// Numbers keep full stored precision; percent cells are scaled to a
// percentage and date serials become ISO dates.
type cellDecoder struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	kinds    map[int]numFmtKind
}

func newCellDecoder(f *excelize.File, sheet string) *cellDecoder {
	d := &cellDecoder{f: f, sheet: sheet, kinds: make(map[int]numFmtKind)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *cellDecoder) decodeRows(rows [][]string) error {
	for r := range rows {
		for c, raw := range rows[r] {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				continue
			}
			kind, numeric, err := d.kindAt(c+1, r+1)
			if err != nil {
				return err
			}
			if numeric {
				rows[r][c] = decodeNumber(v, kind, d.date1904)
			}
		}
	}
	return nil
}

// kindAt reports the number format kind of a cell and whether it holds a
// stored number. Text that merely looks numeric is left alone.
func (d *cellDecoder) kindAt(col, row int) (numFmtKind, bool, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmtPlain, false, err
	}
	typ, err := d.f.GetCellType(d.sheet, ref)
	if err != nil {
		return fmtPlain, false, fmt.Errorf("reading type of %s: %w", ref, err)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return fmtPlain, false, nil
	}

	styleID, err := d.f.GetCellStyle(d.sheet, ref)
	if err != nil {
		return fmtPlain, false, fmt.Errorf("reading style of %s: %w", ref, err)
	}
	if kind, ok := d.kinds[styleID]; ok {
		return kind, true, nil
	}
	kind := fmtPlain
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		kind = classifyNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	d.kinds[styleID] = kind
	return kind, true, nil
}

func classifyNumFmt(id int, custom *string) numFmtKind {
	switch {
	case id == 9 || id == 10:
		return fmtPercent
	case builtinDateFmts[id]:
		return fmtDate
	case custom == nil:
		return fmtPlain
	}
	code := strings.ToLower(quotedOrBracketed.ReplaceAllString(*custom, ""))
	switch {
	case strings.Contains(code, "%"):
		return fmtPercent
	case strings.ContainsAny(code, "ydmhs"):
		return fmtDate
	default:
		return fmtPlain
	}
}

// decodeNumber renders a stored number as the shortest text that round-trips
// it, the way a float-based reader would see the cell.
func decodeNumber(v float64, kind numFmtKind, date1904 bool) string {
	switch kind {
	case fmtPercent:
		// A percent cell stores the fraction; values above 1 were typed as whole percentages.
		if v < -1 || v > 1 {
			return formatFloat(v)
		}
		return decimal.RequireFromString(formatFloat(v)).Shift(2).String()
	case fmtDate:
		t, err := excelize.ExcelDateToTime(v, date1904)
		if err != nil {
			return formatFloat(v)
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	default:
		return formatFloat(v)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
