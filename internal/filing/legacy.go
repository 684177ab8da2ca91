package filing

type legacyDocument struct {
	GSTIN   string      `json:"gstin"`
	FP      string      `json:"fp"`
	GT      float64     `json:"gt"`
	CurGT   float64     `json:"cur_gt"`
	Version string      `json:"version"`
	Hash    string      `json:"hash"`
	B2CS    []B2CSEntry `json:"b2cs"`
	HSN     legacyHSN   `json:"hsn"`
}

type legacyHSN struct {
	Data []HSNEntry `json:"data"`
}

// legacyRenderer emits the older layout with gross turnover fields, HSN rows
// under hsn.data including total value, and UQC "NOS-NUMBERS".
type legacyRenderer struct{}

func (legacyRenderer) Version() string { return VersionLegacy }

func (r legacyRenderer) Render(in Input) ([]byte, error) {
	return marshal(legacyDocument{
		GSTIN:   in.Header.GSTIN,
		FP:      in.Header.FilingPeriod(),
		Version: VersionLegacy,
		Hash:    "hash",
		B2CS:    b2csEntries(in),
		HSN:     legacyHSN{Data: hsnEntries(in, "NOS-NUMBERS", true)},
	})
}
