package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

func TestNewSMTPMailer_RequiresHostAndSender(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Sender: "bookings@example.com"})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewSMTPMailer(SMTPConfig{Host: "smtp.example.com"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPMailer_BuildMessage(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 465, Secure: true, Sender: "bookings@example.com", Password: "secret"})
	require.NoError(t, err)

	msg, err := mailer.buildMessage(ports.Message{
		To:       []string{"cher@example.com"},
		ReplyTo:  "ops@example.com",
		Subject:  "YACHT CONFIRMED: YT-1-1 - SEA BREEZE",
		HTMLBody: "<p>hi</p>",
	})
	require.NoError(t, err)
	to := msg.GetToString()
	require.Len(t, to, 1)
	require.Contains(t, to[0], "cher@example.com")

	_, err = mailer.buildMessage(ports.Message{Subject: "nobody"})
	require.Error(t, err)
}

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	mailer := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	err := mailer.Send(context.Background(), ports.Message{To: []string{"a@example.com", "b@example.com"}, Subject: "hello"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "a@example.com,b@example.com")
	require.Contains(t, buf.String(), "subject=hello")
}
