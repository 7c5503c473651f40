// Package notify delivers pricing import reports by email.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"hireshop-backend/internal/domain"
	"hireshop-backend/internal/logger"
	"hireshop-backend/internal/pricing"
)

// Sender is the part of the SendGrid client the mailer uses.
type Sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridMailer struct {
	client    Sender
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return NewSendGridMailerWithClient(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func NewSendGridMailerWithClient(client Sender, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *SendGridMailer) SendImportReport(ctx context.Context, to string, report domain.ImportReport) error {
	subject := ReportSubject(report)
	plainText := pricing.FormatReport(report)
	htmlContent := "<html><body><pre>" + html.EscapeString(plainText) + "</pre></body></html>"

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail("", to),
		plainText,
		htmlContent,
	)

	logger.ExternalServiceCall("sendgrid", "SendImportReport", "to", to, "batch_id", report.BatchID)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "SendImportReport", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send import report: %w", err)
	}
	return nil
}

// ReportSubject summarizes the outcome in one line.
func ReportSubject(report domain.ImportReport) string {
	name := report.FileName
	if name == "" {
		name = report.Schema + " pricing"
	}
	if report.FileRejected {
		return fmt.Sprintf("Pricing import rejected: %s", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pricing import %s: %d updated", name, report.Result.SuccessCount)
	if report.TotalErrors > 0 {
		fmt.Fprintf(&b, ", %d errors", report.TotalErrors)
	}
	return b.String()
}

// LogMailer writes reports to the log. Used when no SendGrid key is configured.
type LogMailer struct{}

func (LogMailer) SendImportReport(ctx context.Context, to string, report domain.ImportReport) error {
	logger.Info("Import report",
		"to", to,
		"subject", ReportSubject(report),
		"batch_id", report.BatchID,
		"updated", report.Result.SuccessCount,
		"errors", report.TotalErrors,
	)
	return nil
}
