package gst

import (
	"github.com/shopspring/decimal"

	"gstr1/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// SupplierCode returns the jurisdiction code embedded in a GSTIN (its first two characters).
func SupplierCode(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}

// IsIntraState reports whether a resolved jurisdiction shares the supplier's code.
// Unresolved jurisdictions are always inter-state.
func IsIntraState(jurisdictionCode, supplierCode string) bool {
	if len(jurisdictionCode) < 2 || supplierCode == "" {
		return false
	}
	return jurisdictionCode[:2] == supplierCode
}

// SplitTax computes the GST components for one taxable amount at a gross rate.
// Values are not rounded.
func SplitTax(taxable, rate decimal.Decimal, intra bool) domain.TaxBreakdown {
	total := taxable.Mul(rate).Div(hundred)
	b := domain.TaxBreakdown{
		CentralTax:    decimal.Zero,
		StateTax:      decimal.Zero,
		IntegratedTax: decimal.Zero,
		TotalTax:      total,
		TotalValue:    taxable.Add(total),
	}
	if intra {
		half := total.Div(two)
		b.CentralTax = half
		b.StateTax = half
	} else {
		b.IntegratedTax = total
	}
	return b
}

// ApplyTax attaches a TaxBreakdown to every row for a single-supplier batch.
func ApplyTax(rows []domain.TransactionRow, supplierCode string) []domain.TaxedRow {
	out := make([]domain.TaxedRow, len(rows))
	for i := range rows {
		intra := IsIntraState(rows[i].JurisdictionCode, supplierCode)
		out[i] = domain.TaxedRow{
			TransactionRow: rows[i],
			Tax:            SplitTax(rows[i].TaxableAmount.Value, rows[i].GSTRate, intra),
			IntraState:     intra,
		}
	}
	return out
}
