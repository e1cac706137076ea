package notification

import (
	"context"
	"log/slog"
)

// Email describes an outbound message.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers email through a downstream provider. The auth service
// never consumes a return value beyond the error; delivery is out-of-band.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LoggerMailer is a stub implementation that writes outbound mail to the
// logger. Useful in development and tests.
type LoggerMailer struct {
	logger *slog.Logger
}

// NewLoggerMailer constructs a logging mailer stub.
func NewLoggerMailer(logger *slog.Logger) *LoggerMailer {
	return &LoggerMailer{logger: logger}
}

// Send writes the message to the structured logger.
func (m *LoggerMailer) Send(_ context.Context, email Email) error {
	if m == nil || m.logger == nil {
		return nil
	}
	m.logger.Info("outbound email", "to", email.To, "subject", email.Subject, "body", email.Body)
	return nil
}
