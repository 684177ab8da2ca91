package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"gstr1/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// B2CSColumns is the GSTR-1 Table 7 summary header.
var B2CSColumns = []string{
	"Type",
	"Place Of Supply",
	"Rate",
	"Applicable % of Tax Rate",
	"Taxable Value",
	"Cess Amount",
	"E-Commerce GSTIN",
}

// HSNColumns is the GSTR-1 Table 12 summary header.
var HSNColumns = []string{
	"HSN",
	"Description",
	"UQC",
	"Total Quantity",
	"Total Value",
	"Taxable Value",
	"Integrated Tax Amount",
	"Central Tax Amount",
	"State/UT Tax Amount",
	"Cess Amount",
	"Rate",
}

// UQC is the unit-of-measure reported for every HSN line.
const UQC = "NOS"

// B2CSSupplyType is the "Other than E-commerce" type code.
const B2CSSupplyType = "OE"

// Money marks a monetary cell rendered with two decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to two places.
func NewMoney(d decimal.Decimal) Money {
	return Money{d.Round(2)}
}

// B2CSValues returns one B2CS summary row as typed cell values.
func B2CSValues(b *domain.B2CSBucket) []interface{} {
	return []interface{}{
		B2CSSupplyType,
		b.JurisdictionCode,
		b.GSTRate,
		"",
		NewMoney(b.TaxableValue),
		NewMoney(decimal.Zero),
		"",
	}
}

// HSNValues returns one HSN summary row as typed cell values.
func HSNValues(b *domain.HSNBucket) []interface{} {
	return []interface{}{
		b.HSNCode,
		b.Description,
		UQC,
		b.Quantity,
		NewMoney(b.TotalValue),
		NewMoney(b.TaxableValue),
		NewMoney(b.IntegratedTax),
		NewMoney(b.CentralTax),
		NewMoney(b.StateTax),
		NewMoney(decimal.Zero),
		b.GSTRate,
	}
}

// Writer wraps csv.Writer for exporting summary buckets as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteB2CS writes the B2CS header and one row per bucket.
func (w *Writer) WriteB2CS(buckets []domain.B2CSBucket) error {
	if err := w.csv.Write(B2CSColumns); err != nil {
		return err
	}
	for i := range buckets {
		if err := w.csv.Write(toRecord(B2CSValues(&buckets[i]))); err != nil {
			return err
		}
	}
	return nil
}

// WriteHSN writes the HSN header and one row per bucket.
func (w *Writer) WriteHSN(buckets []domain.HSNBucket) error {
	if err := w.csv.Write(HSNColumns); err != nil {
		return err
	}
	for i := range buckets {
		if err := w.csv.Write(toRecord(HSNValues(&buckets[i]))); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// RenderB2CS returns the B2CS summary as CSV bytes.
func RenderB2CS(buckets []domain.B2CSBucket, bom bool) ([]byte, error) {
	return render(bom, func(w *Writer) error { return w.WriteB2CS(buckets) })
}

// RenderHSN returns the HSN summary as CSV bytes.
func RenderHSN(buckets []domain.HSNBucket, bom bool) ([]byte, error) {
	return render(bom, func(w *Writer) error { return w.WriteHSN(buckets) })
}

func render(bom bool, write func(*Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if bom {
		buf.Write(BOM)
	}
	w := NewWriter(&buf)
	if err := write(w); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// toRecord formats typed values as CSV fields.
func toRecord(values []interface{}) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = formatCell(v)
	}
	return row
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case Money:
		return val.StringFixed(2)
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
