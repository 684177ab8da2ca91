// Package filing renders aggregated GSTR-1 tables into the portal's JSON upload format.
// Each schema version is a Renderer; the aggregates themselves are version-independent.
package filing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"gstr1/internal/domain"
	"gstr1/internal/gst"
)

// Supported schema versions.
const (
	VersionCurrent = "GST3.2.3"
	VersionLegacy  = "GST3.0.4"
)

// Supply types for B2CS entries.
const (
	SupplyIntra = "INTRA"
	SupplyInter = "INTER"
)

// Input is everything a renderer needs for one filing.
type Input struct {
	Header domain.FilingHeader
	B2CS   []domain.B2CSBucket
	HSN    []domain.HSNBucket
}

// Renderer produces the JSON document for one schema version.
type Renderer interface {
	Version() string
	Render(in Input) ([]byte, error)
}

var renderers = map[string]Renderer{
	VersionCurrent: currentRenderer{},
	VersionLegacy:  legacyRenderer{},
}

// NewRenderer returns the renderer for a schema version. An empty version selects the current one.
func NewRenderer(version string) (Renderer, error) {
	if strings.TrimSpace(version) == "" {
		version = VersionCurrent
	}
	r, ok := renderers[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSchemaVersion, version)
	}
	return r, nil
}

// Versions lists the supported schema versions.
func Versions() []string {
	out := make([]string, 0, len(renderers))
	for v := range renderers {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// B2CSEntry is one flat Table 7 record.
type B2CSEntry struct {
	SupplyType string  `json:"sply_ty"`
	Rate       float64 `json:"rt"`
	Type       string  `json:"typ"`
	POS        string  `json:"pos"`
	TxVal      float64 `json:"txval"`
	IAmt       float64 `json:"iamt"`
	CAmt       float64 `json:"camt"`
	SAmt       float64 `json:"samt"`
	CsAmt      float64 `json:"csamt"`
}

// HSNEntry is one Table 12 record.
type HSNEntry struct {
	Num   int      `json:"num"`
	HSNSC string   `json:"hsn_sc"`
	Desc  string   `json:"desc"`
	UQC   string   `json:"uqc"`
	Qty   float64  `json:"qty"`
	Val   *float64 `json:"val,omitempty"`
	TxVal float64  `json:"txval"`
	IAmt  float64  `json:"iamt"`
	CAmt  float64  `json:"camt"`
	SAmt  float64  `json:"samt"`
	CsAmt float64  `json:"csamt"`
	Rate  float64  `json:"rt"`
}

// b2csEntries drops buckets whose taxable value rounds to zero.
func b2csEntries(in Input) []B2CSEntry {
	entries := make([]B2CSEntry, 0, len(in.B2CS))
	for i := range in.B2CS {
		b := &in.B2CS[i]
		if gst.IsZeroMoney(b.TaxableValue) {
			continue
		}
		supply := SupplyInter
		if gst.IsIntraState(b.JurisdictionCode, in.Header.SupplierCode) {
			supply = SupplyIntra
		}
		entries = append(entries, B2CSEntry{
			SupplyType: supply,
			Rate:       b.GSTRate.InexactFloat64(),
			Type:       "OE",
			POS:        b.PlaceOfSupply(),
			TxVal:      round(b.TaxableValue, 2),
			IAmt:       round(b.IntegratedTax, 2),
			CAmt:       round(b.CentralTax, 2),
			SAmt:       round(b.StateTax, 2),
			CsAmt:      0,
		})
	}
	return entries
}

// hsnEntries skips buckets without an HSN code or with a non-positive rate and numbers the rest from 1.
func hsnEntries(in Input, uqc string, withValue bool) []HSNEntry {
	entries := make([]HSNEntry, 0, len(in.HSN))
	for i := range in.HSN {
		b := &in.HSN[i]
		code := gst.NormalizeHSN(b.HSNCode)
		if code == "" || !b.GSTRate.IsPositive() {
			continue
		}
		e := HSNEntry{
			Num:   len(entries) + 1,
			HSNSC: code,
			Desc:  b.Description,
			UQC:   uqc,
			Qty:   round(b.Quantity, 3),
			TxVal: round(b.TaxableValue, 2),
			IAmt:  round(b.IntegratedTax, 2),
			CAmt:  round(b.CentralTax, 2),
			SAmt:  round(b.StateTax, 2),
			CsAmt: 0,
			Rate:  b.GSTRate.InexactFloat64(),
		}
		if withValue {
			v := round(b.TotalValue, 2)
			e.Val = &v
		}
		entries = append(entries, e)
	}
	return entries
}

func round(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}

func marshal(doc interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshaling filing json: %w", err)
	}
	return out, nil
}
