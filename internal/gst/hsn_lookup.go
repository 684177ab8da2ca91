package gst

import (
	"math"

	"github.com/shopspring/decimal"

	"gstr1/internal/domain"
	"gstr1/internal/port"
)

// HSNRateEntry holds one valid GST rate and its description for an HSN code.
type HSNRateEntry struct {
	Rate          float64
	Description   string
	ConditionDesc string
}

// HSNLookup provides in-memory lookups over the HSN master.
// It is immutable after construction and safe for concurrent access.
type HSNLookup struct {
	byCode map[string][]HSNRateEntry
}

// NewHSNLookup builds an HSNLookup from master entries.
func NewHSNLookup(entries []port.HSNEntry) *HSNLookup {
	m := make(map[string][]HSNRateEntry, len(entries))
	for idx := range entries {
		e := &entries[idx]
		m[e.Code] = append(m[e.Code], HSNRateEntry{
			Rate:          e.GSTRate,
			Description:   e.Description,
			ConditionDesc: e.ConditionDesc,
		})
	}
	return &HSNLookup{byCode: m}
}

// Rates returns the master entries for a code, falling back 8→6→4 digit prefixes.
func (h *HSNLookup) Rates(code string) []HSNRateEntry {
	if h == nil || len(h.byCode) == 0 || code == "" {
		return nil
	}
	if rates, ok := h.byCode[code]; ok {
		return rates
	}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			if rates, ok := h.byCode[code[:prefixLen]]; ok {
				return rates
			}
		}
	}
	return nil
}

// Description returns the master description for a code, preferring the entry at the given rate.
func (h *HSNLookup) Description(code string, rate decimal.Decimal) string {
	rates := h.Rates(code)
	if len(rates) == 0 {
		return ""
	}
	r := rate.InexactFloat64()
	for idx := range rates {
		if math.Abs(rates[idx].Rate-r) < 0.01 {
			return rates[idx].Description
		}
	}
	return rates[0].Description
}

// RateMatches checks a rate against the master. Unknown codes report matched=true with no rates.
func (h *HSNLookup) RateMatches(code string, rate decimal.Decimal) (matched bool, validRates []HSNRateEntry) {
	validRates = h.Rates(code)
	if len(validRates) == 0 {
		return true, nil
	}
	r := rate.InexactFloat64()
	for idx := range validRates {
		if math.Abs(validRates[idx].Rate-r) < 0.01 {
			return true, validRates
		}
	}
	return false, validRates
}

// Enrich fills bucket descriptions from the master and returns buckets whose rate is not listed.
func (h *HSNLookup) Enrich(buckets []domain.HSNBucket) []domain.HSNRateMismatch {
	if h == nil {
		return nil
	}
	var mismatches []domain.HSNRateMismatch
	for i := range buckets {
		b := &buckets[i]
		if b.Description == "" {
			b.Description = h.Description(b.HSNCode, b.GSTRate)
		}
		matched, valid := h.RateMatches(b.HSNCode, b.GSTRate)
		if matched {
			continue
		}
		rates := make([]string, 0, len(valid))
		for _, v := range valid {
			rates = append(rates, decimal.NewFromFloat(v.Rate).String())
		}
		mismatches = append(mismatches, domain.HSNRateMismatch{
			HSNCode:    b.HSNCode,
			Rate:       b.GSTRate.String(),
			ValidRates: rates,
		})
	}
	return mismatches
}
