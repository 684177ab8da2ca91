package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"gstr1/internal/port"
)

// emailAPI is the subset of the SES v2 client used here.
type emailAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      emailAPI
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSender(sesv2.NewFromConfig(cfg), fromAddress, fromName), nil
}

func newSender(client emailAPI, fromAddress, fromName string) *sesSender {
	return &sesSender{client: client, fromAddress: fromAddress, fromName: fromName}
}

func (s *sesSender) SendReportReady(ctx context.Context, toEmail string, n port.ReportNotification) error {
	subject := fmt.Sprintf("GSTR-1 reports ready: %s %s", n.GSTIN, n.FilingPeriod)
	htmlBody := buildReportHTML(n)
	textBody := buildReportText(n)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReportText(n port.ReportNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GSTR-1 reports for %s, period %s are ready.\n\n", n.GSTIN, n.FilingPeriod)
	fmt.Fprintf(&b, "Run: %s\nRows processed: %d\n", n.RunID, n.RowCount)
	if n.ReturnsMissing {
		b.WriteString("No returns file was found in the archive.\n")
	}
	if len(n.UnmappedStates) > 0 {
		fmt.Fprintf(&b, "Unmapped customer states: %s\n", strings.Join(n.UnmappedStates, ", "))
	}
	if len(n.Links) > 0 {
		b.WriteString("\nDownloads:\n")
		for _, l := range n.Links {
			fmt.Fprintf(&b, "- %s: %s\n", l.FileName, l.URL)
		}
	}
	return b.String()
}

func buildReportHTML(n port.ReportNotification) string {
	var links strings.Builder
	for _, l := range n.Links {
		fmt.Fprintf(&links, `    <li><a href="%s">%s</a></li>
`, html.EscapeString(l.URL), html.EscapeString(l.FileName))
	}

	var warnings strings.Builder
	if n.ReturnsMissing {
		warnings.WriteString(`  <p style="color: #B45309;">No returns file was found in the archive.</p>
`)
	}
	if len(n.UnmappedStates) > 0 {
		fmt.Fprintf(&warnings, `  <p style="color: #B45309;">Unmapped customer states: %s</p>
`, html.EscapeString(strings.Join(n.UnmappedStates, ", ")))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">GSTR-1 reports ready</h2>
  <p>GSTIN <strong>%s</strong>, period <strong>%s</strong>.</p>
  <p style="color: #666;">Run %s, %d rows processed.</p>
%s  <ul>
%s  </ul>
  <p style="color: #999; font-size: 12px;">Download links expire after a limited time.</p>
</body>
</html>`, html.EscapeString(n.GSTIN), html.EscapeString(n.FilingPeriod), html.EscapeString(n.RunID), n.RowCount,
		warnings.String(), links.String())
}
