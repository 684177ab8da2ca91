package workbook

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstr1/internal/csvexport"
	"gstr1/internal/domain"
)

const (
	// RawSheet is the template sheet receiving merged rows.
	RawSheet = "raw"
	// HSNSheet is the sheet name of the HSN summary workbook.
	HSNSheet = "HSN_Summary"

	comboStartRow = 3
	comboLastCol  = 15 // A..O
)

// ComboOptions controls how merged rows are written into the template.
type ComboOptions struct {
	SourceLabel string
	// SupplierRefCell receives the supplier's canonical jurisdiction ("27-Maharashtra").
	SupplierRefCell   string
	SupplierCanonical string
	// LiveFormulas writes K..O as formulas against SupplierRefCell instead of values.
	LiveFormulas bool
}

// WriteCombo fills the template's raw sheet with taxed rows and returns the workbook bytes.
// Existing data from row 3 down is cleared first.
func WriteCombo(template []byte, rows []domain.TaxedRow, opts ComboOptions) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTemplateUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	idx, err := f.GetSheetIndex(RawSheet)
	if err != nil || idx < 0 {
		return nil, domain.ErrTemplateSheetMissing
	}

	if err := clearRows(f); err != nil {
		return nil, err
	}

	refCol, refRow, err := excelize.CellNameToCoordinates(opts.SupplierRefCell)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier reference cell %q: %w", opts.SupplierRefCell, err)
	}
	absRef, _ := excelize.CoordinatesToCellName(refCol, refRow, true)
	if err := f.SetCellStr(RawSheet, opts.SupplierRefCell, opts.SupplierCanonical); err != nil {
		return nil, fmt.Errorf("writing supplier reference: %w", err)
	}

	for i := range rows {
		r := &rows[i]
		excelRow := comboStartRow + i
		start, _ := excelize.CoordinatesToCellName(1, excelRow)

		values := []interface{}{
			opts.SourceLabel,
			dateCell(&r.TransactionRow),
			r.OrderNumber,
			r.HSNCode,
			r.GSTRate.InexactFloat64(),
			amountCell(r.TaxableAmount),
			r.CustomerState,
			string(r.RecordType),
			amountCell(r.Quantity),
			r.JurisdictionCode,
		}
		if !opts.LiveFormulas {
			values = append(values,
				money(r.Tax.CentralTax),
				money(r.Tax.StateTax),
				money(r.Tax.IntegratedTax),
				money(r.Tax.TotalValue),
				effectiveRate(r.Tax.TotalTax, r.TaxableAmount.Value),
			)
		}
		if err := f.SetSheetRow(RawSheet, start, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", excelRow, err)
		}

		if opts.LiveFormulas {
			if err := setFormulas(f, excelRow, absRef); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("saving combo workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHSNSummary renders the HSN buckets as a standalone workbook.
func WriteHSNSummary(buckets []domain.HSNBucket) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), HSNSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(csvexport.HSNColumns))
	for i, c := range csvexport.HSNColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(HSNSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i := range buckets {
		values := csvexport.HSNValues(&buckets[i])
		for j, v := range values {
			values[j] = cellValueOf(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(HSNSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("saving HSN workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func clearRows(f *excelize.File) error {
	existing, err := f.GetRows(RawSheet)
	if err != nil {
		return fmt.Errorf("reading template rows: %w", err)
	}
	for row := comboStartRow; row <= len(existing); row++ {
		for col := 1; col <= comboLastCol; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			if err := f.SetCellValue(RawSheet, cell, nil); err != nil {
				return fmt.Errorf("clearing %s: %w", cell, err)
			}
		}
	}
	return nil
}

func setFormulas(f *excelize.File, row int, ref string) error {
	formulas := map[string]string{
		"K": fmt.Sprintf("IF(J%d=%s,F%d*E%d/100/2,0)", row, ref, row, row),
		"L": fmt.Sprintf("IF(J%d=%s,F%d*E%d/100/2,0)", row, ref, row, row),
		"M": fmt.Sprintf("IF(J%d<>%s,F%d*E%d/100,0)", row, ref, row, row),
		"N": fmt.Sprintf("K%d+L%d+M%d+F%d", row, row, row, row),
		"O": fmt.Sprintf("IF(F%d=0,0,(K%d+L%d+M%d)/F%d)", row, row, row, row, row),
	}
	for col, formula := range formulas {
		cell := fmt.Sprintf("%s%d", col, row)
		if err := f.SetCellFormula(RawSheet, cell, formula); err != nil {
			return fmt.Errorf("writing formula %s: %w", cell, err)
		}
	}
	return nil
}

func dateCell(r *domain.TransactionRow) interface{} {
	if r.OrderDate.IsZero() {
		return r.OrderDateText
	}
	return r.OrderDate
}

// amountCell leaves null amounts blank.
func amountCell(a domain.Amount) interface{} {
	if !a.Valid {
		return nil
	}
	return a.Value.InexactFloat64()
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func effectiveRate(totalTax, taxable decimal.Decimal) float64 {
	if taxable.IsZero() {
		return 0
	}
	return totalTax.Div(taxable).Round(4).InexactFloat64()
}

func cellValueOf(v interface{}) interface{} {
	switch val := v.(type) {
	case csvexport.Money:
		return val.InexactFloat64()
	case decimal.Decimal:
		return val.InexactFloat64()
	default:
		return v
	}
}
