package filing

type currentDocument struct {
	GSTIN   string      `json:"gstin"`
	FP      string      `json:"fp"`
	Version string      `json:"version"`
	Hash    string      `json:"hash"`
	B2CS    []B2CSEntry `json:"b2cs"`
	HSN     currentHSN  `json:"hsn"`
}

type currentHSN struct {
	HSNB2C []HSNEntry `json:"hsn_b2c"`
}

// currentRenderer emits the portal's current offline-tool layout: HSN rows under
// hsn.hsn_b2c, no total value, UQC "NOS".
type currentRenderer struct{}

func (currentRenderer) Version() string { return VersionCurrent }

func (r currentRenderer) Render(in Input) ([]byte, error) {
	return marshal(currentDocument{
		GSTIN:   in.Header.GSTIN,
		FP:      in.Header.FilingPeriod(),
		Version: VersionCurrent,
		Hash:    "hash",
		B2CS:    b2csEntries(in),
		HSN:     currentHSN{HSNB2C: hsnEntries(in, "NOS", false)},
	})
}
