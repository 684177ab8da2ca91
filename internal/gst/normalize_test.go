package gst_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstr1/internal/domain"
	"gstr1/internal/gst"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func salesTable() domain.RawTable {
	return domain.RawTable{
		Name: "sales.xlsx",
		Rows: [][]string{
			{"order_date", "sub_order_num", "hsn_code", "gst_rate", "total_taxable_sale_value", "end_customer_state_new", "quantity"},
			{"2025-04-03", "SO-1", "6109.0", "18", "1,000.00", "MAHARASHTRA", "1"},
			{"", "", "", "", "", "", ""},
			{"2025-04-04", "SO-2", "6204", "5%", "-250", "delhi", "-2"},
		},
	}
}

func TestNormalize_Sales(t *testing.T) {
	res, err := gst.Normalize(salesTable(), domain.RecordTypeSale, gst.NumericZero)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Empty(t, res.MissingColumns)
	assert.Zero(t, res.CoercedValues)

	first := res.Rows[0]
	assert.Equal(t, "SO-1", first.OrderNumber)
	assert.Equal(t, "6109", first.HSNCode)
	assert.True(t, first.GSTRate.Equal(dec("18")))
	assert.True(t, first.TaxableAmount.Value.Equal(dec("1000")))
	assert.True(t, first.TaxableAmount.Valid)
	assert.Equal(t, "MAHARASHTRA", first.CustomerState)
	assert.Equal(t, domain.RecordTypeSale, first.RecordType)
	assert.Equal(t, 2025, first.OrderDate.Year())

	// sales are forced non-negative
	second := res.Rows[1]
	assert.True(t, second.TaxableAmount.Value.Equal(dec("250")))
	assert.True(t, second.Quantity.Value.Equal(dec("2")))
	assert.True(t, second.GSTRate.Equal(dec("5")))
}

func TestNormalize_ReturnsAreNegative(t *testing.T) {
	table := domain.RawTable{
		Name: "returns.xlsx",
		Rows: [][]string{
			{"hsn_code", "gst_rate", "total_taxable_sale_value", "end_customer_state_new", "quantity"},
			{"6109", "5", "500", "Karnataka", "2"},
			{"6109", "5", "-120", "Karnataka", "-1"},
		},
	}
	res, err := gst.Normalize(table, domain.RecordTypeReturn, gst.NumericZero)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	assert.True(t, res.Rows[0].TaxableAmount.Value.Equal(dec("-500")))
	assert.True(t, res.Rows[0].Quantity.Value.Equal(dec("-2")))
	assert.True(t, res.Rows[1].TaxableAmount.Value.Equal(dec("-120")))
	assert.True(t, res.Rows[1].Quantity.Value.Equal(dec("-1")))
	assert.Equal(t, domain.RecordTypeReturn, res.Rows[0].RecordType)
	assert.ElementsMatch(t, []string{gst.ColOrderDate, gst.ColOrderNumber}, res.MissingColumns)
}

func TestNormalize_NumericPolicy(t *testing.T) {
	table := domain.RawTable{
		Name: "sales.csv",
		Rows: [][]string{
			{"gst_rate", "taxable_value", "state", "qty"},
			{"18", "N/A", "Goa", "one"},
		},
	}

	t.Run("zero", func(t *testing.T) {
		res, err := gst.Normalize(table, domain.RecordTypeSale, gst.NumericZero)
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)
		assert.Equal(t, 2, res.CoercedValues)
		assert.True(t, res.Rows[0].TaxableAmount.Valid)
		assert.True(t, res.Rows[0].TaxableAmount.Value.IsZero())
	})

	t.Run("null", func(t *testing.T) {
		res, err := gst.Normalize(table, domain.RecordTypeSale, gst.NumericNull)
		require.NoError(t, err)
		assert.False(t, res.Rows[0].TaxableAmount.Valid)
		assert.False(t, res.Rows[0].Quantity.Valid)
		assert.True(t, res.Rows[0].TaxableAmount.Value.IsZero())
	})
}

func TestNormalize_MissingRequiredColumn(t *testing.T) {
	table := domain.RawTable{
		Name: "sales.xlsx",
		Rows: [][]string{{"gst_rate", "end_customer_state_new"}, {"18", "Goa"}},
	}
	_, err := gst.Normalize(table, domain.RecordTypeSale, gst.NumericZero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingColumn))
	assert.Contains(t, err.Error(), gst.ColTaxableAmount)
}

func TestNormalize_EmptyTable(t *testing.T) {
	_, err := gst.Normalize(domain.RawTable{Name: "empty.xlsx"}, domain.RecordTypeSale, gst.NumericZero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))

	var mErr *domain.MalformedInputError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, "empty.xlsx", mErr.Source)
}

func TestNormalize_HeaderOnly(t *testing.T) {
	table := domain.RawTable{
		Name: "returns.xlsx",
		Rows: [][]string{{"gst_rate", "total_taxable_sale_value", "end_customer_state_new"}},
	}
	res, err := gst.Normalize(table, domain.RecordTypeReturn, gst.NumericZero)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1,234.50", "1234.5", true},
		{"₹ 99", "99", true},
		{"Rs. 10", "10", true},
		{"INR 5.25", "5.25", true},
		{"-12", "-12", true},
		{"(500.00)", "-500", true},
		{"(1,234.50)", "-1234.5", true},
		{"()", "", false},
		{"", "", false},
		{"-", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := gst.ParseDecimal(tt.input)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.Equal(dec(tt.want)), "got %s", d)
		})
	}
}

func TestParseRate(t *testing.T) {
	assert.True(t, gst.ParseRate("18%").Equal(dec("18")))
	assert.True(t, gst.ParseRate("12.0").Equal(dec("12")))
	assert.True(t, gst.ParseRate("n/a").IsZero())
}

func TestNormalizeHSN(t *testing.T) {
	assert.Equal(t, "6109", gst.NormalizeHSN("6109.0"))
	assert.Equal(t, "61091000", gst.NormalizeHSN(" 61091000 "))
	assert.Equal(t, "6109.5", gst.NormalizeHSN("6109.5"))
	assert.Equal(t, "0401", gst.NormalizeHSN("0401"))
	assert.Equal(t, "", gst.NormalizeHSN(""))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-04-03", "03-04-2025", "03/04/2025", "03-Apr-2025", "2025-04-03 10:11:12"} {
		d, err := gst.ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2025, d.Year(), s)
		assert.Equal(t, 3, d.Day(), s)
	}
	_, err := gst.ParseDate("sometime")
	assert.Error(t, err)
}
