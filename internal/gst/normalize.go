package gst

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gstr1/internal/domain"
)

// Canonical column names.
const (
	ColOrderDate     = "order_date"
	ColOrderNumber   = "order_num"
	ColHSNCode       = "hsn_code"
	ColGSTRate       = "gst_rate"
	ColTaxableAmount = "tcs_taxable_amount"
	ColCustomerState = "end_customer_state_new"
	ColQuantity      = "qty"
)

// columnAliases maps normalized source headers to canonical column names.
var columnAliases = map[string]string{
	"order_date":               ColOrderDate,
	"invoice_date":             ColOrderDate,
	"date":                     ColOrderDate,
	"sub_order_num":            ColOrderNumber,
	"sub_order_no":             ColOrderNumber,
	"suborder_id":              ColOrderNumber,
	"order_num":                ColOrderNumber,
	"order_id":                 ColOrderNumber,
	"order_number":             ColOrderNumber,
	"hsn_code":                 ColHSNCode,
	"hsn":                      ColHSNCode,
	"gst_rate":                 ColGSTRate,
	"tax_rate":                 ColGSTRate,
	"total_taxable_sale_value": ColTaxableAmount,
	"total_taxable_value":      ColTaxableAmount,
	"taxable_value":            ColTaxableAmount,
	"tcs_taxable_amount":       ColTaxableAmount,
	"end_customer_state_new":   ColCustomerState,
	"end_customer_state":       ColCustomerState,
	"customer_state":           ColCustomerState,
	"state":                    ColCustomerState,
	"quantity":                 ColQuantity,
	"qty":                      ColQuantity,
}

// requiredColumns cannot be placeholder-filled without corrupting the tax computation.
var requiredColumns = []string{ColTaxableAmount, ColGSTRate, ColCustomerState}

// optionalColumns are filled with blanks when absent.
var optionalColumns = []string{ColOrderDate, ColOrderNumber, ColHSNCode, ColQuantity}

// NumericPolicy decides what a non-numeric amount or quantity becomes.
type NumericPolicy string

const (
	// NumericZero fills non-numeric values with 0.
	NumericZero NumericPolicy = "zero"
	// NumericNull keeps them as null: zero in arithmetic, blank in the combo workbook.
	NumericNull NumericPolicy = "null"
)

// ParseNumericPolicy maps a config value to a policy.
func ParseNumericPolicy(s string) (NumericPolicy, error) {
	switch NumericPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case NumericZero, "":
		return NumericZero, nil
	case NumericNull:
		return NumericNull, nil
	default:
		return "", fmt.Errorf("unknown numeric policy %q", s)
	}
}

// NormalizeResult is the output of Normalize for one source table.
type NormalizeResult struct {
	Rows           []domain.TransactionRow
	MissingColumns []string
	CoercedValues  int
}

// Normalize converts a raw source table into TransactionRows of the given record type.
// Amount and quantity signs are forced from the record type, never trusted from input.
func Normalize(table domain.RawTable, typ domain.RecordType, policy NumericPolicy) (*NormalizeResult, error) {
	if typ != domain.RecordTypeSale && typ != domain.RecordTypeReturn {
		return nil, fmt.Errorf("unknown record type %q", typ)
	}
	if len(table.Rows) == 0 {
		return nil, domain.NewMalformedInputError(table.Name, errors.New("sheet has no header row"))
	}

	colIndex := make(map[string]int)
	for i, h := range table.Rows[0] {
		canonical, ok := columnAliases[headerKey(h)]
		if !ok {
			continue
		}
		if _, dup := colIndex[canonical]; !dup {
			colIndex[canonical] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: %s in %s", domain.ErrMissingColumn, col, table.Name)
		}
	}

	result := &NormalizeResult{}
	for _, col := range optionalColumns {
		if _, ok := colIndex[col]; !ok {
			result.MissingColumns = append(result.MissingColumns, col)
		}
	}

	get := func(row []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for _, raw := range table.Rows[1:] {
		if isBlankRow(raw) {
			continue
		}

		amount, coerced := coerceAmount(get(raw, ColTaxableAmount), policy)
		if coerced {
			result.CoercedValues++
		}
		qty, coerced := coerceAmount(get(raw, ColQuantity), policy)
		if coerced {
			result.CoercedValues++
		}
		amount.Value = applySign(amount.Value, typ)
		qty.Value = applySign(qty.Value, typ)

		rateText := get(raw, ColGSTRate)
		dateText := get(raw, ColOrderDate)
		orderDate, _ := ParseDate(dateText)

		result.Rows = append(result.Rows, domain.TransactionRow{
			OrderDate:     orderDate,
			OrderDateText: dateText,
			OrderNumber:   get(raw, ColOrderNumber),
			HSNCode:       NormalizeHSN(get(raw, ColHSNCode)),
			GSTRate:       ParseRate(rateText),
			GSTRateText:   rateText,
			TaxableAmount: amount,
			CustomerState: get(raw, ColCustomerState),
			Quantity:      qty,
			RecordType:    typ,
		})
	}
	return result, nil
}

func applySign(v decimal.Decimal, typ domain.RecordType) decimal.Decimal {
	if typ == domain.RecordTypeReturn {
		return v.Abs().Neg()
	}
	return v.Abs()
}

// coerceAmount parses a numeric cell. coerced reports a non-empty value that was not numeric.
func coerceAmount(s string, policy NumericPolicy) (amt domain.Amount, coerced bool) {
	v, err := ParseDecimal(s)
	if err != nil {
		coerced = strings.TrimSpace(s) != ""
		if policy == NumericNull {
			return domain.Amount{Value: decimal.Zero, Valid: false}, coerced
		}
		return domain.Amount{Value: decimal.Zero, Valid: true}, coerced
	}
	return domain.Amount{Value: v, Valid: true}, false
}

// ParseDecimal parses amount strings, tolerating currency symbols, commas and spaces.
// Accounting negatives in parentheses, "(500.00)", parse as -500.00.
func ParseDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, "Rs.", "")
	cleaned = strings.ReplaceAll(cleaned, "Rs", "")
	cleaned = strings.ReplaceAll(cleaned, "INR", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	negative := false
	if len(cleaned) > 2 && strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
	}
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, errors.New("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %s", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseRate parses a GST rate percentage ("18", "18%", "18.0"). Non-numeric values become 0.
func ParseRate(s string) decimal.Decimal {
	d, err := ParseDecimal(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeHSN drops a spurious fractional part that spreadsheets add to numeric codes ("6109.0").
func NormalizeHSN(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return s
	}
	return d.String()
}

// ParseDate tries the date layouts seen in marketplace exports.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	formats := []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"02-01-2006",
		"02/01/2006",
		"01-02-06",
		"2006/01/02",
		"02-Jan-2006",
		"02 Jan 2006",
		"2 Jan 2006",
		"Jan 02, 2006",
		"02-01-2006 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func headerKey(h string) string {
	k := strings.ToLower(strings.TrimSpace(h))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	return k
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
