package mail

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-booking/internal/config"
)

func TestNewPicksTransport(t *testing.T) {
	log := zerolog.Nop()

	assert.IsType(t, &MailerSend{}, New(config.MailConfig{MailerSendAPIKey: "k", SMTPHost: "smtp.example.com"}, log))
	assert.IsType(t, &SMTP{}, New(config.MailConfig{SMTPHost: "smtp.example.com"}, log))
	assert.IsType(t, &LogSender{}, New(config.MailConfig{}, log))
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))

	require.NoError(t, s.SendPasswordReset(context.Background(), "ana@example.com", "http://app/reset-password?token=abc"))
	out := buf.String()
	assert.Contains(t, out, `"to":"ana@example.com"`)
	assert.Contains(t, out, `reset-password?token=abc`)
	assert.Contains(t, out, `"component":"mail"`)
}

func TestBuildMessage(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := buildMessage("Escapedia", "no-reply@example.com", "ana@example.com", "http://x/y", at)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Escapedia")
	assert.Contains(t, out, "<no-reply@example.com>")
	assert.Contains(t, out, "<ana@example.com>")
	assert.Contains(t, out, "Subject: Reset your password\r\n")
	assert.Contains(t, out, "Date: Fri, 02 Jan 2026 03:04:05 +0000")
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "http://x/y")
}

func TestBuildMessageRejectsBadAddress(t *testing.T) {
	_, err := buildMessage("", "no-reply@example.com", "not an address", "http://x", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp recipient")
}

func TestSMTPDialFailureIsReturned(t *testing.T) {
	s := NewSMTP(config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1, From: "no-reply@example.com"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.SendPasswordReset(ctx, "ana@example.com", "http://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp send")
}
