package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/Apurer/go-gin-booking-api/internal/domains/orders/ports"
)

// ErrNotConfigured is returned when SMTP settings are incomplete.
var ErrNotConfigured = errors.New("smtp mailer not configured")

const defaultSendTimeout = 20 * time.Second

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool
	Sender   string
	Password string
	FromName string
	Timeout  time.Duration
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.Sender) != ""
}

// SMTPMailer delivers messages over SMTP.
type SMTPMailer struct {
	client   *gomail.Client
	sender   string
	fromName string
}

// NewSMTPMailer builds a mailer authenticated as the sender account.
// Port 465 expects implicit TLS (Secure); other ports upgrade with STARTTLS when offered.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSendTimeout
	}
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	}
	if cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Sender),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure smtp client: %w", err)
	}
	fromName := strings.TrimSpace(cfg.FromName)
	if fromName == "" {
		fromName = "EXPEDINAP"
	}
	return &SMTPMailer{client: client, sender: cfg.Sender, fromName: fromName}, nil
}

// Send dials the server and delivers a single message.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Message) error {
	built, err := m.buildMessage(msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("send mail %q: %w", msg.Subject, err)
	}
	return nil
}

func (m *SMTPMailer) buildMessage(msg ports.Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("mail message has no recipients")
	}
	out := gomail.NewMsg()
	if err := out.FromFormat(m.fromName, m.sender); err != nil {
		return nil, fmt.Errorf("mail sender: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("mail recipients: %w", err)
	}
	if reply := strings.TrimSpace(msg.ReplyTo); reply != "" {
		if err := out.ReplyTo(reply); err != nil {
			return nil, fmt.Errorf("mail reply-to: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	return out, nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer is the fallback used when SMTP is not configured.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LogMailer{logger: logger}
}

// Send logs the envelope of the message.
func (m *LogMailer) Send(ctx context.Context, msg ports.Message) error {
	m.logger.LogAttrs(ctx, slog.LevelInfo, "mail delivery skipped (smtp not configured)",
		slog.String("to", strings.Join(msg.To, ",")),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)
