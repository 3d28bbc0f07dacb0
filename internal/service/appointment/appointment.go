package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/notification"
	"github.com/pulseai/pulsedesk/internal/service/patient"
	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/util/codes"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookRequest struct {
	PatientID string `json:"patientId"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
	Type      string `json:"type"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Book(ctx context.Context, req BookRequest) (*domain.Appointment, error)
	List(ctx context.Context) ([]domain.Appointment, error)
	ListForPatient(ctx context.Context, patientID string) ([]domain.Appointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	api      logservice.API
	patients patient.Service
	notifier notification.Notifier
}

func New(api logservice.API, patients patient.Service, notifier notification.Notifier) Service {
	return &appointmentService{api: api, patients: patients, notifier: notifier}
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest) (*domain.Appointment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	p, conv, err := s.patients.Resolve(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	appt := domain.Appointment{
		ID:           codes.NewAppointmentID(),
		PatientID:    p.ID,
		PatientName:  p.Name,
		ProfileImage: p.ProfileImage,
		Date:         req.Date,
		Time:         req.Time,
		Type:         req.Type,
		Status:       domain.AppointmentPending,
	}

	report := conv.Report.Clone()
	report.Append(logservice.KeyAppointments, appt)

	if _, err := s.api.Update(ctx, p.ConversationID, logservice.UpdateRequest{Report: report}); err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}

	slog.InfoContext(ctx, "appointment booked", "appointment_id", appt.ID, "patient_id", p.ID, "date", appt.Date)
	notification.Send(ctx, s.notifier, func(n notification.Notifier) error {
		return n.AppointmentBooked(ctx, *p, appt)
	})
	return &appt, nil
}

func (s *appointmentService) List(ctx context.Context) ([]domain.Appointment, error) {
	convs, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return FromConversations(ctx, convs), nil
}

func (s *appointmentService) ListForPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	_, conv, err := s.patients.Resolve(ctx, patientID)
	switch {
	case errors.Is(err, patient.ErrNoConversation), errors.Is(err, patient.ErrConversationNotFound):
		return []domain.Appointment{}, nil
	case err != nil:
		return nil, err
	}
	return FromConversations(ctx, []logservice.Conversation{*conv}), nil
}

// FromConversations flattens report.appointments across convs. Malformed
// lists are skipped.
func FromConversations(ctx context.Context, convs []logservice.Conversation) []domain.Appointment {
	return lo.FlatMap(convs, func(c logservice.Conversation, _ int) []domain.Appointment {
		list, err := logservice.ReportList[domain.Appointment](c.Report, logservice.KeyAppointments)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed appointments", "conversation_id", c.ID, "error", err)
			return nil
		}
		return list
	})
}

func validate(req BookRequest) error {
	var problems []string
	if strings.TrimSpace(req.PatientID) == "" {
		problems = append(problems, "patientId is required")
	}
	if _, err := time.Parse(time.DateOnly, req.Date); err != nil {
		problems = append(problems, "date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		problems = append(problems, "time must be HH:MM")
	}
	if strings.TrimSpace(req.Type) == "" {
		problems = append(problems, "type is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAppointment, strings.Join(problems, "; "))
	}
	return nil
}
