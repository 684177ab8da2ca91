package gst

import (
	"sort"

	"github.com/shopspring/decimal"

	"gstr1/internal/domain"
)

type bucketKey struct {
	group string
	rate  string
}

// AggregateB2CS groups rows by (jurisdiction code, rate) and sums taxable value and taxes.
// Buckets are sorted by jurisdiction code then rate.
func AggregateB2CS(rows []domain.TaxedRow) []domain.B2CSBucket {
	index := make(map[bucketKey]int)
	var buckets []domain.B2CSBucket
	for i := range rows {
		r := &rows[i]
		key := bucketKey{group: r.JurisdictionCode, rate: r.GSTRate.String()}
		idx, ok := index[key]
		if !ok {
			idx = len(buckets)
			index[key] = idx
			buckets = append(buckets, domain.B2CSBucket{
				JurisdictionCode: r.JurisdictionCode,
				GSTRate:          r.GSTRate,
				TaxableValue:     decimal.Zero,
				CentralTax:       decimal.Zero,
				StateTax:         decimal.Zero,
				IntegratedTax:    decimal.Zero,
			})
		}
		b := &buckets[idx]
		b.TaxableValue = b.TaxableValue.Add(r.TaxableAmount.Value)
		b.CentralTax = b.CentralTax.Add(r.Tax.CentralTax)
		b.StateTax = b.StateTax.Add(r.Tax.StateTax)
		b.IntegratedTax = b.IntegratedTax.Add(r.Tax.IntegratedTax)
		b.RowCount++
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].JurisdictionCode != buckets[j].JurisdictionCode {
			return buckets[i].JurisdictionCode < buckets[j].JurisdictionCode
		}
		return buckets[i].GSTRate.LessThan(buckets[j].GSTRate)
	})
	return buckets
}

// AggregateHSN groups rows by (HSN code, rate) and sums quantity, values and taxes.
// Buckets are sorted by HSN code then rate.
func AggregateHSN(rows []domain.TaxedRow) []domain.HSNBucket {
	index := make(map[bucketKey]int)
	var buckets []domain.HSNBucket
	for i := range rows {
		r := &rows[i]
		key := bucketKey{group: r.HSNCode, rate: r.GSTRate.String()}
		idx, ok := index[key]
		if !ok {
			idx = len(buckets)
			index[key] = idx
			buckets = append(buckets, domain.HSNBucket{
				HSNCode:       r.HSNCode,
				GSTRate:       r.GSTRate,
				Quantity:      decimal.Zero,
				TaxableValue:  decimal.Zero,
				TotalValue:    decimal.Zero,
				CentralTax:    decimal.Zero,
				StateTax:      decimal.Zero,
				IntegratedTax: decimal.Zero,
			})
		}
		b := &buckets[idx]
		b.Quantity = b.Quantity.Add(r.Quantity.Value)
		b.TaxableValue = b.TaxableValue.Add(r.TaxableAmount.Value)
		b.TotalValue = b.TotalValue.Add(r.Tax.TotalValue)
		b.CentralTax = b.CentralTax.Add(r.Tax.CentralTax)
		b.StateTax = b.StateTax.Add(r.Tax.StateTax)
		b.IntegratedTax = b.IntegratedTax.Add(r.Tax.IntegratedTax)
		b.RowCount++
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].HSNCode != buckets[j].HSNCode {
			return buckets[i].HSNCode < buckets[j].HSNCode
		}
		return buckets[i].GSTRate.LessThan(buckets[j].GSTRate)
	})
	return buckets
}

// Money rounds a monetary value to two decimal places for emission.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsZeroMoney reports whether a value rounds to 0.00.
func IsZeroMoney(d decimal.Decimal) bool {
	return d.Abs().LessThan(decimal.New(5, -3))
}
