package email

import (
	"time"

	"github.com/pulseai/pulsedesk/config"
)

const defaultSMTPTimeout = 30 * time.Second

type Config struct {
	Enabled bool
	From    string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	// SMTPUseTLS dials with implicit TLS; otherwise STARTTLS is used when
	// the server offers it.
	SMTPUseTLS         bool
	SMTPTimeoutSeconds int
}

func (c Config) SMTPTimeout() time.Duration {
	if c.SMTPTimeoutSeconds <= 0 {
		return defaultSMTPTimeout
	}
	return time.Duration(c.SMTPTimeoutSeconds) * time.Second
}

func FromCentralConfig(c config.EmailConfig) Config {
	return Config{
		Enabled:            c.Enabled,
		From:               c.From,
		SMTPHost:           c.SMTP.Host,
		SMTPPort:           c.SMTP.Port,
		SMTPUsername:       c.SMTP.Username,
		SMTPPassword:       c.SMTP.Password,
		SMTPUseTLS:         c.SMTP.UseTLS,
		SMTPTimeoutSeconds: c.SMTP.TimeoutSeconds,
	}
}
