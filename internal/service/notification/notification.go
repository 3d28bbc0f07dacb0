package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/pkg/email"
	"github.com/pulseai/pulsedesk/pkg/sms"
)

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// Notifier tells a patient about something done on their record.
type Notifier interface {
	PrescriptionIssued(ctx context.Context, p domain.Patient, rx domain.Prescription) error
	AppointmentBooked(ctx context.Context, p domain.Patient, appt domain.Appointment) error
}

type Mailer interface {
	Send(ctx context.Context, m email.Message) error
}

type Texter interface {
	IsEnabled() bool
	Templates() sms.Templates
	SendTemplate(ctx context.Context, phoneNumber, templateID string, params map[string]string) error
}

type Config struct {
	Signature   email.Signature
	PhoneRegion string
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	mailer Mailer
	texter Texter
	cfg    Config
}

// New returns a Notifier that delivers over email and SMS directly. Either
// channel may be nil.
func New(mailer Mailer, texter Texter, cfg Config) Notifier {
	return &notificationService{mailer: mailer, texter: texter, cfg: cfg}
}

func (s *notificationService) PrescriptionIssued(ctx context.Context, p domain.Patient, rx domain.Prescription) error {
	var errs []error

	if p.Email != "" {
		msg := email.BuildPrescriptionEmail(email.PrescriptionEmailData{
			PatientName:  p.Name,
			Email:        p.Email,
			Date:         displayDate(rx.Date),
			Medications:  rx.Medications,
			Dosage:       rx.Dosage,
			Instructions: rx.Instructions,
			Notes:        rx.Notes,
			Signature:    s.cfg.Signature,
		})
		errs = append(errs, s.sendEmail(ctx, msg))
	}

	if s.smsEnabled() {
		errs = append(errs, s.sendSMS(ctx, p.Contact, s.texter.Templates().Prescription, map[string]string{
			"name":        p.Name,
			"medications": rx.Medications,
			"dosage":      rx.Dosage,
		}))
	}

	return errors.Join(errs...)
}

func (s *notificationService) AppointmentBooked(ctx context.Context, p domain.Patient, appt domain.Appointment) error {
	var errs []error

	if p.Email != "" {
		msg := email.BuildAppointmentEmail(email.AppointmentEmailData{
			PatientName: p.Name,
			Email:       p.Email,
			Date:        appt.Date,
			Time:        appt.Time,
			Type:        appt.Type,
			Signature:   s.cfg.Signature,
		})
		errs = append(errs, s.sendEmail(ctx, msg))
	}

	if s.smsEnabled() {
		errs = append(errs, s.sendSMS(ctx, p.Contact, s.texter.Templates().Appointment, map[string]string{
			"name": p.Name,
			"date": appt.Date,
			"time": appt.Time,
		}))
	}

	return errors.Join(errs...)
}

func (s *notificationService) sendEmail(ctx context.Context, msg email.Message) error {
	if s.mailer == nil {
		return nil
	}
	err := s.mailer.Send(ctx, msg)
	var disabled email.ErrDisabled
	if errors.As(err, &disabled) {
		return nil
	}
	return err
}

func (s *notificationService) smsEnabled() bool {
	return s.texter != nil && s.texter.IsEnabled()
}

func (s *notificationService) sendSMS(ctx context.Context, contact, templateID string, params map[string]string) error {
	if templateID == "" {
		slog.DebugContext(ctx, "sms template not configured, skipping")
		return nil
	}
	if contact == "" {
		return ErrNoRecipient
	}
	phone, err := E164(contact, s.cfg.PhoneRegion)
	if err != nil {
		return err
	}
	return s.texter.SendTemplate(ctx, phone, templateID, params)
}

// E164 normalises a free-form contact number, using region for numbers
// without a country code.
func E164(contact, region string) (string, error) {
	num, err := phonenumbers.Parse(contact, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func displayDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("January 2, 2006")
}

// Send delivers through n and logs failures. Notification errors never fail
// the operation that triggered them.
func Send(ctx context.Context, n Notifier, fn func(Notifier) error) {
	if n == nil {
		return
	}
	if err := fn(n); err != nil {
		slog.WarnContext(ctx, "patient notification failed", "error", err)
	}
}
