package mail

import (
	"context"
	"fmt"

	"github.com/mailersend/mailersend-go"
)

// MailerSend sends through the MailerSend HTTP API.
type MailerSend struct {
	client    *mailersend.Mailersend
	fromName  string
	fromEmail string
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSend {
	return &MailerSend{
		client:    mailersend.NewMailersend(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *MailerSend) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{{Email: to}})
	message.SetSubject(resetSubject)
	message.SetText(resetText(resetURL))
	message.SetHTML(resetHTML(resetURL))

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("mailersend: %w", err)
	}
	return nil
}
