package noop

import (
	"context"

	"github.com/sirupsen/logrus"

	"gstr1/internal/port"
)

type noopSender struct {
	log logrus.FieldLogger
}

// NewNoopSender creates an EmailSender that only logs the notification.
func NewNoopSender(log logrus.FieldLogger) port.EmailSender {
	return &noopSender{log: log}
}

func (s *noopSender) SendReportReady(_ context.Context, toEmail string, n port.ReportNotification) error {
	entry := s.log.WithFields(logrus.Fields{
		"to":              toEmail,
		"gstin":           n.GSTIN,
		"filing_period":   n.FilingPeriod,
		"run_id":          n.RunID,
		"rows":            n.RowCount,
		"unmapped_states": n.UnmappedStates,
		"returns_missing": n.ReturnsMissing,
	})
	for _, l := range n.Links {
		entry = entry.WithField(l.FileName, l.URL)
	}
	entry.Info("report notification (noop email)")
	return nil
}
