package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawTable is a source sheet as a grid of cell strings. Rows[0] is the header row.
type RawTable struct {
	Name string
	Rows [][]string
}

// Cell returns the value at a 0-based row/column, or "" when out of range.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Amount is a coerced numeric cell. Valid is false when the source value was
// missing or non-numeric; Value is then zero.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// TransactionRow is one normalized sale or return line.
type TransactionRow struct {
	OrderDate        time.Time
	OrderDateText    string
	OrderNumber      string
	HSNCode          string
	GSTRate          decimal.Decimal
	GSTRateText      string
	TaxableAmount    Amount
	CustomerState    string
	Quantity         Amount
	RecordType       RecordType
	JurisdictionCode string
}

// TaxBreakdown holds the GST components computed for a single row.
type TaxBreakdown struct {
	CentralTax    decimal.Decimal
	StateTax      decimal.Decimal
	IntegratedTax decimal.Decimal
	TotalTax      decimal.Decimal
	TotalValue    decimal.Decimal
}

// TaxedRow is a TransactionRow with its tax components attached.
type TaxedRow struct {
	TransactionRow
	Tax        TaxBreakdown
	IntraState bool
}

// B2CSBucket aggregates rows sharing a (jurisdiction, rate) key.
type B2CSBucket struct {
	JurisdictionCode string
	GSTRate          decimal.Decimal
	TaxableValue     decimal.Decimal
	CentralTax       decimal.Decimal
	StateTax         decimal.Decimal
	IntegratedTax    decimal.Decimal
	RowCount         int
}

// PlaceOfSupply returns the two-digit code portion of the jurisdiction.
func (b *B2CSBucket) PlaceOfSupply() string {
	if len(b.JurisdictionCode) < 2 {
		return b.JurisdictionCode
	}
	return b.JurisdictionCode[:2]
}

// HSNBucket aggregates rows sharing an (HSN code, rate) key.
type HSNBucket struct {
	HSNCode       string
	Description   string
	GSTRate       decimal.Decimal
	Quantity      decimal.Decimal
	TaxableValue  decimal.Decimal
	TotalValue    decimal.Decimal
	CentralTax    decimal.Decimal
	StateTax      decimal.Decimal
	IntegratedTax decimal.Decimal
	RowCount      int
}

// FilingHeader carries the supplier identity and period read from the sales sheet.
type FilingHeader struct {
	GSTIN        string `json:"gstin"`
	Month        string `json:"month"`
	Year         string `json:"year"`
	SupplierCode string `json:"supplier_code"`
}

// FilingPeriod returns the MMYYYY period string.
func (h FilingHeader) FilingPeriod() string {
	return h.Month + h.Year
}

// BaseName returns the artifact base name, e.g. 27ABCDE1234F1Z5_04_2025_GSTR1.
func (h FilingHeader) BaseName() string {
	return h.GSTIN + "_" + h.Month + "_" + h.Year + "_GSTR1"
}

// HSNRateMismatch reports a bucket whose rate is not listed for its HSN code in the master.
type HSNRateMismatch struct {
	HSNCode    string   `json:"hsn_code"`
	Rate       string   `json:"rate"`
	ValidRates []string `json:"valid_rates"`
}

// Diagnostics collects soft warnings raised during a run. None of them abort the run.
type Diagnostics struct {
	UnmappedStates    []string            `json:"unmapped_states"`
	MissingColumns    map[string][]string `json:"missing_columns,omitempty"`
	CoercedValues     int                 `json:"coerced_values"`
	ReturnsMissing    bool                `json:"returns_missing"`
	IgnoredEntries    []string            `json:"ignored_entries,omitempty"`
	HSNRateMismatches []HSNRateMismatch   `json:"hsn_rate_mismatches,omitempty"`
}

// Artifact is one emitted report blob.
type Artifact struct {
	Kind        ArtifactKind `json:"kind"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	Content     []byte       `json:"-"`
	URL         string       `json:"url,omitempty"`
}

// RunResult is everything one pipeline invocation produces. It is owned by the caller.
type RunResult struct {
	RunID         uuid.UUID
	Header        FilingHeader
	SchemaVersion string
	SalesCount    int
	ReturnsCount  int
	Rows          []TaxedRow
	B2CS          []B2CSBucket
	HSN           []HSNBucket
	Artifacts     []Artifact
	Diagnostics   Diagnostics
	GeneratedAt   time.Time
}

// Artifact returns the artifact of the given kind, or nil.
func (r *RunResult) Artifact(kind ArtifactKind) *Artifact {
	for i := range r.Artifacts {
		if r.Artifacts[i].Kind == kind {
			return &r.Artifacts[i]
		}
	}
	return nil
}
