package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/iliyamo/escape-room-booking/internal/config"
)

// SMTP sends through a mail server.  Secure selects implicit TLS (port
// 465); otherwise STARTTLS is used when the server offers it.
type SMTP struct {
	host     string
	port     int
	secure   bool
	user     string
	pass     string
	from     string
	fromName string
}

func NewSMTP(cfg config.MailConfig) *SMTP {
	return &SMTP{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		secure:   cfg.SMTPSecure,
		user:     cfg.SMTPUser,
		pass:     cfg.SMTPPass,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *SMTP) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	msg, err := buildMessage(s.fromName, s.from, to, resetURL, time.Now())
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(s.host, s.options()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTP) options() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithTLSConfig(&tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}),
	}
	if s.secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if s.port > 0 {
		opts = append(opts, gomail.WithPort(s.port))
	}
	if s.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.user),
			gomail.WithPassword(s.pass),
		)
	}
	return opts
}

// buildMessage renders the reset mail with a plain text body and an HTML
// alternative.
func buildMessage(fromName, from, to, resetURL string, at time.Time) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if fromName != "" {
		if err := m.FromFormat(fromName, from); err != nil {
			return nil, fmt.Errorf("smtp sender: %w", err)
		}
	} else if err := m.From(from); err != nil {
		return nil, fmt.Errorf("smtp sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("smtp recipient: %w", err)
	}
	m.Subject(resetSubject)
	m.SetDateWithValue(at)
	m.SetBodyString(gomail.TypeTextPlain, resetText(resetURL))
	m.AddAlternativeString(gomail.TypeTextHTML, resetHTML(resetURL))
	return m, nil
}
