package email

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/pulseai/pulsedesk/config"
)

type Client struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

// New returns a client. A disabled config yields a client whose Send
// always returns ErrDisabled.
func New(cfg Config) (*Client, error) {
	if !cfg.Enabled {
		return &Client{cfg: cfg}, nil
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("email.from is required when email is enabled")
	}
	if cfg.SMTPHost == "" {
		return nil, errors.New("email.smtp.host is required when email is enabled")
	}

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	d.SSL = cfg.SMTPUseTLS
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	return &Client{cfg: cfg, dialer: d}, nil
}

// Send delivers m, giving up at the earlier of ctx's deadline and the
// configured SMTP timeout. gomail has no context support, so an abandoned
// send finishes in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}
	if err := m.validate(); err != nil {
		return err
	}

	msg := c.compose(m)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Host: c.cfg.SMTPHost, Err: err}
		}
		slog.DebugContext(ctx, "email sent", "to", m.To, "subject", m.Subject)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) compose(m Message) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", strings.TrimSpace(c.cfg.From))
	msg.SetHeader("To", recipients(m.To)...)
	msg.SetHeader("Subject", strings.TrimSpace(m.Subject))
	if m.ReplyTo != "" {
		msg.SetHeader("Reply-To", m.ReplyTo)
	}

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	default:
		msg.SetBody("text/plain", m.TextBody)
	}
	return msg
}
