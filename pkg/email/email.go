// Package email sends patient notifications over SMTP.
package email

import (
	"fmt"
	"strings"
)

// Message is one outbound email. At least one of TextBody and HTMLBody
// must be set; both produce a multipart/alternative message.
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

type ErrDisabled struct{}

func (ErrDisabled) Error() string { return "email is disabled" }

type ErrInvalidMessage struct{ Reason string }

func (e ErrInvalidMessage) Error() string { return "invalid email message: " + e.Reason }

// ErrSend wraps a failure reported by the SMTP server or the dial.
type ErrSend struct {
	Host string
	Err  error
}

func (e ErrSend) Error() string { return fmt.Sprintf("email send via %s failed: %v", e.Host, e.Err) }
func (e ErrSend) Unwrap() error { return e.Err }

func (m Message) validate() error {
	switch {
	case len(recipients(m.To)) == 0:
		return ErrInvalidMessage{Reason: "at least one recipient is required"}
	case strings.TrimSpace(m.Subject) == "":
		return ErrInvalidMessage{Reason: "subject is required"}
	case strings.TrimSpace(m.TextBody) == "" && strings.TrimSpace(m.HTMLBody) == "":
		return ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}
	return nil
}

func recipients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
