package gst_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstr1/internal/domain"
	"gstr1/internal/gst"
)

func row(state string, taxable, rate, qty string, typ domain.RecordType) domain.TransactionRow {
	return domain.TransactionRow{
		HSNCode:       "6109",
		GSTRate:       dec(rate),
		TaxableAmount: domain.Amount{Value: dec(taxable), Valid: true},
		Quantity:      domain.Amount{Value: dec(qty), Valid: true},
		CustomerState: state,
		RecordType:    typ,
	}
}

func TestSplitTax_IntraState(t *testing.T) {
	b := gst.SplitTax(dec("1000"), dec("18"), true)
	assert.True(t, b.CentralTax.Equal(dec("90")))
	assert.True(t, b.StateTax.Equal(dec("90")))
	assert.True(t, b.IntegratedTax.IsZero())
	assert.True(t, b.TotalTax.Equal(dec("180")))
	assert.True(t, b.TotalValue.Equal(dec("1180")))
}

func TestSplitTax_InterState(t *testing.T) {
	b := gst.SplitTax(dec("1000"), dec("18"), false)
	assert.True(t, b.CentralTax.IsZero())
	assert.True(t, b.StateTax.IsZero())
	assert.True(t, b.IntegratedTax.Equal(dec("180")))
	assert.True(t, b.TotalValue.Equal(dec("1180")))
}

func TestSplitTax_ComponentsSumToTotal(t *testing.T) {
	amounts := []string{"0", "1", "999.99", "-500", "123456.789"}
	rates := []string{"0", "0.25", "3", "5", "12", "18", "28"}
	for _, a := range amounts {
		for _, r := range rates {
			for _, intra := range []bool{true, false} {
				b := gst.SplitTax(dec(a), dec(r), intra)
				sum := b.CentralTax.Add(b.StateTax).Add(b.IntegratedTax)
				assert.True(t, sum.Equal(b.TotalTax), "%s@%s intra=%v", a, r, intra)
				assert.True(t, b.TotalValue.Equal(dec(a).Add(b.TotalTax)))
				if intra {
					assert.True(t, b.IntegratedTax.IsZero())
					assert.True(t, b.CentralTax.Equal(b.StateTax))
				} else {
					assert.True(t, b.CentralTax.IsZero())
					assert.True(t, b.StateTax.IsZero())
				}
			}
		}
	}
}

func TestIsIntraState(t *testing.T) {
	assert.True(t, gst.IsIntraState("27-Maharashtra", "27"))
	assert.False(t, gst.IsIntraState("07-Delhi", "27"))
	assert.False(t, gst.IsIntraState("", "27"))
	assert.False(t, gst.IsIntraState("27-Maharashtra", ""))
}

func TestSupplierCode(t *testing.T) {
	assert.Equal(t, "27", gst.SupplierCode("27ABCDE1234F1Z5"))
	assert.Equal(t, "", gst.SupplierCode("2"))
}

func TestApplyTax_Scenarios(t *testing.T) {
	resolver := gst.NewResolver(gst.NormalizeTitle)
	sales := []domain.TransactionRow{
		row("Maharashtra", "1000", "18", "1", domain.RecordTypeSale),
		row("Delhi", "1000", "18", "1", domain.RecordTypeSale),
		row("Atlantis", "200", "5", "1", domain.RecordTypeSale),
	}
	returns := []domain.TransactionRow{
		row("Karnataka", "-500", "5", "-2", domain.RecordTypeReturn),
	}

	merged := gst.Merge(resolver, sales, returns)
	taxed := gst.ApplyTax(merged, "27")
	require.Len(t, taxed, 4)

	maha := taxed[0]
	assert.True(t, maha.IntraState)
	assert.True(t, maha.Tax.CentralTax.Equal(dec("90")))
	assert.True(t, maha.Tax.StateTax.Equal(dec("90")))
	assert.True(t, maha.Tax.IntegratedTax.IsZero())
	assert.True(t, maha.Tax.TotalValue.Equal(dec("1180")))

	delhi := taxed[1]
	assert.False(t, delhi.IntraState)
	assert.True(t, delhi.Tax.IntegratedTax.Equal(dec("180")))

	atlantis := taxed[2]
	assert.Empty(t, atlantis.JurisdictionCode)
	assert.False(t, atlantis.IntraState)
	assert.True(t, atlantis.Tax.IntegratedTax.Equal(dec("10")))

	ret := taxed[3]
	assert.Equal(t, "29-Karnataka", ret.JurisdictionCode)
	assert.True(t, ret.Tax.IntegratedTax.Equal(dec("-25")))
	assert.True(t, ret.Tax.TotalValue.Equal(dec("-525")))
}

func TestMerge_PreservesOrderAndCount(t *testing.T) {
	resolver := gst.NewResolver(gst.NormalizeTitle)
	sales := []domain.TransactionRow{
		row("Goa", "1", "5", "1", domain.RecordTypeSale),
		row("Goa", "1", "5", "1", domain.RecordTypeSale),
	}
	returns := []domain.TransactionRow{row("Goa", "-1", "5", "-1", domain.RecordTypeReturn)}

	merged := gst.Merge(resolver, sales, returns)
	require.Len(t, merged, 3)
	assert.Equal(t, domain.RecordTypeSale, merged[0].RecordType)
	assert.Equal(t, domain.RecordTypeSale, merged[1].RecordType)
	assert.Equal(t, domain.RecordTypeReturn, merged[2].RecordType)
	for _, r := range merged {
		assert.Equal(t, "30-Goa", r.JurisdictionCode)
	}

	assert.Len(t, gst.Merge(resolver, sales, nil), 2)
	// inputs are not mutated
	assert.Empty(t, sales[0].JurisdictionCode)
}

func TestMoney(t *testing.T) {
	assert.True(t, gst.Money(dec("1.005")).Equal(dec("1.01")))
	assert.True(t, gst.IsZeroMoney(dec("0.004")))
	assert.True(t, gst.IsZeroMoney(dec("-0.004")))
	assert.False(t, gst.IsZeroMoney(dec("0.005")))
	assert.False(t, gst.IsZeroMoney(decimal.NewFromInt(-1)))
}
