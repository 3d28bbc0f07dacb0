package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/pkg/constants"
)

type PrescriptionEvent struct {
	Patient      domain.Patient      `json:"patient"`
	Prescription domain.Prescription `json:"prescription"`
}

type AppointmentEvent struct {
	Patient     domain.Patient     `json:"patient"`
	Appointment domain.Appointment `json:"appointment"`
}

// Conn is the part of *nats.Conn the publisher and worker use.
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Publisher is a Notifier that hands notifications to the NATS worker
// instead of delivering them inline.
type Publisher struct {
	nc Conn
}

func NewPublisher(nc Conn) *Publisher {
	return &Publisher{nc: nc}
}

var _ Notifier = (*Publisher)(nil)

func (p *Publisher) PrescriptionIssued(_ context.Context, patient domain.Patient, rx domain.Prescription) error {
	return p.publish(constants.SubjectPrescriptionIssued, PrescriptionEvent{Patient: patient, Prescription: rx})
}

func (p *Publisher) AppointmentBooked(_ context.Context, patient domain.Patient, appt domain.Appointment) error {
	return p.publish(constants.SubjectAppointmentBooked, AppointmentEvent{Patient: patient, Appointment: appt})
}

func (p *Publisher) publish(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// StartWorker subscribes to notification events and delivers them with
// direct.
func StartWorker(nc Conn, direct Notifier) error {
	_, err := nc.Subscribe(constants.SubjectPrescriptionIssued, func(msg *nats.Msg) {
		var ev PrescriptionEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("notification_worker: bad prescription event", "error", err)
			return
		}
		if err := direct.PrescriptionIssued(context.Background(), ev.Patient, ev.Prescription); err != nil {
			slog.Warn("notification_worker: prescription notification failed",
				"patient_id", ev.Patient.ID, "prescription_id", ev.Prescription.ID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", constants.SubjectPrescriptionIssued, err)
	}

	_, err = nc.Subscribe(constants.SubjectAppointmentBooked, func(msg *nats.Msg) {
		var ev AppointmentEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			slog.Warn("notification_worker: bad appointment event", "error", err)
			return
		}
		if err := direct.AppointmentBooked(context.Background(), ev.Patient, ev.Appointment); err != nil {
			slog.Warn("notification_worker: appointment notification failed",
				"patient_id", ev.Patient.ID, "appointment_id", ev.Appointment.ID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", constants.SubjectAppointmentBooked, err)
	}

	slog.Info("notification_worker: started")
	return nil
}
