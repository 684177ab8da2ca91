package domain

// RecordType distinguishes sales lines from returns.
type RecordType string

const (
	RecordTypeSale   RecordType = "Sale"
	RecordTypeReturn RecordType = "Return"
)

// ArtifactKind identifies an emitted report.
type ArtifactKind string

const (
	ArtifactCombo      ArtifactKind = "combo"
	ArtifactB2CSCSV    ArtifactKind = "b2cs_csv"
	ArtifactHSNCSV     ArtifactKind = "hsn_csv"
	ArtifactHSNXLSX    ArtifactKind = "hsn_xlsx"
	ArtifactFilingJSON ArtifactKind = "gstr1_json"
)

// Content types for emitted artifacts.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
	ContentTypeZIP  = "application/zip"
)

// Fixed artifact file names. Combo and JSON names derive from the filing header.
const (
	B2CSFileName    = "B2CS_Summary_Report.csv"
	HSNCSVFileName  = "HSN_Summary_Report.csv"
	HSNXLSXFileName = "HSN_Summary_Report.xlsx"
)
