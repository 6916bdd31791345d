// Package mail delivers password reset links.  Delivery is best-effort:
// callers log failures and carry on.
package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/escape-room-booking/internal/config"
)

// Sender delivers a reset link to one recipient.
type Sender interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// New picks a transport from cfg: MailerSend when an API key is set, SMTP
// when a host is set, otherwise a sender that only logs the link.
func New(cfg config.MailConfig, log zerolog.Logger) Sender {
	switch {
	case cfg.MailerSendAPIKey != "":
		return NewMailerSend(cfg.MailerSendAPIKey, cfg.FromName, cfg.From)
	case cfg.SMTPHost != "":
		return NewSMTP(cfg)
	}
	return NewLogSender(log)
}

const resetSubject = "Reset your password"

func resetText(resetURL string) string {
	return fmt.Sprintf("You asked to reset your password.\n\n"+
		"Open this link to choose a new one:\n%s\n\n"+
		"The link can be used once and expires soon. If you did not ask for it, ignore this email.\n", resetURL)
}

func resetHTML(resetURL string) string {
	return fmt.Sprintf(`<p>You asked to reset your password.</p>`+
		`<p><a href="%s">Choose a new password</a></p>`+
		`<p>The link can be used once and expires soon. If you did not ask for it, ignore this email.</p>`, resetURL)
}

// LogSender writes the reset link to the log instead of sending it.  It
// is the development default.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "mail").Logger()}
}

func (s *LogSender) SendPasswordReset(_ context.Context, to, resetURL string) error {
	s.log.Info().Str("to", to).Str("reset_url", resetURL).Msg("password reset mail (not sent, no transport configured)")
	return nil
}
