package sms

import (
	"context"
	"fmt"
	"sort"

	"github.com/arsmn/go-smsir/smsir"

	"github.com/pulseai/pulsedesk/config"
)

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client    *smsir.Client
	enabled   bool
	templates Templates
}

// Templates are the sms.ir template ids used for patient notifications.
type Templates struct {
	Prescription string
	Appointment  string
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	templates := Templates{
		Prescription: cfg.SMSIR.PrescriptionTemplateID,
		Appointment:  cfg.SMSIR.AppointmentTemplateID,
	}

	if !cfg.Enabled {
		return &Client{enabled: false, templates: templates}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:    client,
		enabled:   true,
		templates: templates,
	}, nil
}

// SendTemplate sends a template message to phoneNumber. params fill the
// template's named parameters. If SMS is disabled, this is a no-op.
func (c *Client) SendTemplate(ctx context.Context, phoneNumber, templateID string, params map[string]string) error {
	if !c.enabled {
		return nil
	}

	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	if templateID == "" {
		return fmt.Errorf("template ID is required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     phoneNumber,
		TemplateID: templateID,
		Parameters: parameters(params),
	}

	_, err := c.client.Verification.UltraFastSend(ctx, req)
	if err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) Templates() Templates {
	return c.templates
}

// parameters orders params by key so requests are reproducible.
func parameters(params map[string]string) []smsir.UltraFastParameter {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]smsir.UltraFastParameter, 0, len(keys))
	for _, k := range keys {
		out = append(out, smsir.UltraFastParameter{Key: k, Value: params[k]})
	}
	return out
}
