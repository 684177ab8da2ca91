// Package hsnmaster reads the government HSN/SAC rate workbook into master
// entries for the hsn_codes table.
package hsnmaster

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstr1/internal/port"
)

// SACSheet is the services sheet name. Goods are always read from the first sheet.
const SACSheet = "SAC_Master"

// Goods sheet layout: F=4-digit code, H=its description, I=6-digit, J=desc,
// K=8-digit, M=desc, N=GST rate. Data starts on row 6.
const (
	hsnFirstRow = 5
	hsnCode4    = 5
	hsnDesc4    = 7
	hsnCode6    = 8
	hsnDesc6    = 9
	hsnCode8    = 10
	hsnDesc8    = 12
	hsnRate     = 13
	sacFirstRow = 3
	sacCode4    = 0
	sacDesc4    = 1
	sacCode6    = 2
	sacDesc6    = 3
	sacRateText = 4
)

// Parse reads both sheets of the master workbook. Entries are deduplicated
// on (code, rate); codes longer than four digits get their chapter heading
// as parent. A workbook without the SAC sheet yields goods only.
func Parse(data []byte) ([]port.HSNEntry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening hsn master: %w", err)
	}
	defer func() { _ = f.Close() }()

	p := &parser{seen: make(map[string]bool)}
	if err := p.goods(f); err != nil {
		return nil, fmt.Errorf("parsing goods sheet: %w", err)
	}
	if idx, _ := f.GetSheetIndex(SACSheet); idx >= 0 {
		if err := p.services(f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", SACSheet, err)
		}
	}
	return p.entries, nil
}

type parser struct {
	seen    map[string]bool
	entries []port.HSNEntry
}

func (p *parser) goods(f *excelize.File) error {
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return err
	}

	for i := hsnFirstRow; i < len(rows); i++ {
		row := rows[i]
		rate, err := decimal.NewFromString(strings.TrimSuffix(cell(row, hsnRate), "%"))
		if err != nil {
			continue
		}
		// Most specific code first so descriptions come from the 8-digit line.
		p.add(cell(row, hsnCode8), cell(row, hsnDesc8), rate)
		p.add(cell(row, hsnCode6), cell(row, hsnDesc6), rate)
		p.add(cell(row, hsnCode4), cell(row, hsnDesc4), rate)
	}
	return nil
}

func (p *parser) services(f *excelize.File) error {
	rows, err := f.GetRows(SACSheet)
	if err != nil {
		return err
	}

	for i := sacFirstRow; i < len(rows); i++ {
		row := rows[i]
		for _, rate := range ParseSACRate(cell(row, sacRateText)) {
			p.add(cell(row, sacCode6), cell(row, sacDesc6), rate)
			p.add(cell(row, sacCode4), cell(row, sacDesc4), rate)
		}
	}
	return nil
}

func (p *parser) add(code, description string, rate decimal.Decimal) {
	if !isNumeric(code) {
		return
	}
	key := code + "|" + rate.StringFixed(2)
	if p.seen[key] {
		return
	}
	p.seen[key] = true

	e := port.HSNEntry{Code: code, Description: description, GSTRate: rate.InexactFloat64()}
	if len(code) > 4 {
		parent := code[:4]
		e.ParentCode = &parent
	}
	p.entries = append(p.entries, e)
}

var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// ParseSACRate extracts the rates from free-text SAC rate cells:
//
//	"18%"                                   -> [18]
//	"Exempt", "Nil"                         -> [0]
//	"12%-18%"                               -> [12 18]
//	"1% (without ITC) or 5% (without ITC)"  -> [1 5]
func ParseSACRate(s string) []decimal.Decimal {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil
	case "exempt", "nil":
		return []decimal.Decimal{decimal.Zero}
	}

	seen := make(map[string]bool)
	var rates []decimal.Decimal
	for _, m := range ratePattern.FindAllStringSubmatch(s, -1) {
		rate, err := decimal.NewFromString(m[1])
		if err != nil || seen[rate.String()] {
			continue
		}
		seen[rate.String()] = true
		rates = append(rates, rate)
	}
	return rates
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
