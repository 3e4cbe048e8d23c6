// Package mailer delivers signup confirmation codes. The production
// transport lives behind the Mailer interface; the default implementation
// writes to the structured log, which is enough for local and test
// environments where no SMTP relay is configured.
package mailer

import (
	"context"
	"log/slog"
)

type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmationCode(ctx context.Context, email, code string) error {
	m.logger.InfoContext(ctx, "confirmation code issued",
		slog.String("email", email),
		slog.String("code", code))
	return nil
}
