package gst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstr1/internal/domain"
	"gstr1/internal/gst"
)

func TestResolver_Resolve(t *testing.T) {
	r := gst.NewResolver(gst.NormalizeTitle)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical name", "Maharashtra", "27-Maharashtra"},
		{"upper case", "WEST BENGAL", "19-West Bengal"},
		{"extra spaces", "  tamil   nadu ", "33-Tamil Nadu"},
		{"variant new delhi", "NEW DELHI", "07-Delhi"},
		{"variant orissa", "orissa", "21-Odisha"},
		{"variant jammu and kashmir", "Jammu and Kashmir", "01-Jammu & Kashmir"},
		{"variant pondicherry", "PONDICHERRY", "34-Puducherry"},
		{"variant telengana", "Telengana", "36-Telangana"},
		{"ampersand name", "andaman & nicobar islands", "35-Andaman & Nicobar Islands"},
		{"canonical code input", "27-Maharashtra", "27-Maharashtra"},
		{"code with variant name", "07-New Delhi", "07-Delhi"},
		{"code with other state name", "27-Gujarat", ""},
		{"code with unknown name", "27-Atlantis", ""},
		{"unknown code", "28-Andhra Pradesh", ""},
		{"unknown", "Atlantis", ""},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.input))
		})
	}
}

func TestResolver_Idempotent(t *testing.T) {
	for _, strategy := range []gst.NormalizeStrategy{gst.NormalizeTitle, gst.NormalizeCaseFold} {
		r := gst.NewResolver(strategy)
		for _, code := range gst.Codes() {
			canonical := r.ByCode(code)
			require.NotEmpty(t, canonical, code)
			assert.Equal(t, canonical, r.Resolve(canonical), "strategy %s", strategy)
		}
	}
}

func TestResolver_CaseFold(t *testing.T) {
	r := gst.NewResolver(gst.NormalizeCaseFold)
	assert.Equal(t, gst.NormalizeCaseFold, r.Strategy())
	assert.Equal(t, "29-Karnataka", r.Resolve("kArNaTaKa"))
	assert.Equal(t, "07-Delhi", r.Resolve("nct of delhi"))
	assert.Equal(t, "27-Maharashtra", r.Resolve("27-MAHARASHTRA"))
	assert.Empty(t, r.Resolve("27-gujarat"))
}

func TestParseNormalizeStrategy(t *testing.T) {
	s, err := gst.ParseNormalizeStrategy("")
	require.NoError(t, err)
	assert.Equal(t, gst.NormalizeTitle, s)

	s, err = gst.ParseNormalizeStrategy(" CaseFold ")
	require.NoError(t, err)
	assert.Equal(t, gst.NormalizeCaseFold, s)

	_, err = gst.ParseNormalizeStrategy("soundex")
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "27-Maharashtra", gst.Canonical("27"))
	assert.Equal(t, "97-Other Territory", gst.Canonical("97"))
	assert.Empty(t, gst.Canonical("28"))
	assert.Empty(t, gst.Canonical("99"))
}

func TestUnmappedStates(t *testing.T) {
	rows := []domain.TransactionRow{
		{CustomerState: "Atlantis"},
		{CustomerState: "Maharashtra", JurisdictionCode: "27-Maharashtra"},
		{CustomerState: " Atlantis "},
		{CustomerState: "El Dorado"},
		{CustomerState: ""},
		{CustomerState: "   "},
	}
	assert.Equal(t, []string{"Atlantis", "El Dorado"}, gst.UnmappedStates(rows))
	assert.Empty(t, gst.UnmappedStates(rows[1:2]))
}
