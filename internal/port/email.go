package port

import "context"

// ReportLink is a downloadable artifact referenced in a notification.
type ReportLink struct {
	FileName string
	URL      string
}

// ReportNotification describes a finished run for the operator.
type ReportNotification struct {
	GSTIN          string
	FilingPeriod   string
	RunID          string
	RowCount       int
	Links          []ReportLink
	UnmappedStates []string
	ReturnsMissing bool
}

// EmailSender defines the contract for sending operator emails.
type EmailSender interface {
	SendReportReady(ctx context.Context, toEmail string, n ReportNotification) error
}
