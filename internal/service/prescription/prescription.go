package prescription

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

// SpeakerDoctor labels prescription turns in the conversation chat.
const SpeakerDoctor = "Doctor"

type Config struct {
	// LegacyCreate writes with POST /log, which forks a new conversation
	// for every prescription.
	LegacyCreate bool
}

type Service interface {
	Issue(ctx context.Context, patientID string, data domain.PrescriptionData) (*domain.Prescription, error)
	// List returns prescriptions recorded on the patient's conversation, or
	// none when the patient has no reachable conversation.
	List(ctx context.Context, patientID string) ([]domain.Prescription, error)
	ListAll(ctx context.Context) ([]domain.Prescription, error)
}

type prescriptionService struct {
	api      logservice.API
	patients patient.Service
	notifier notification.Notifier
	cfg      Config
	now      func() time.Time
}

func New(api logservice.API, patients patient.Service, notifier notification.Notifier, cfg Config) Service {
	return &prescriptionService{
		api:      api,
		patients: patients,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *prescriptionService) Issue(ctx context.Context, patientID string, data domain.PrescriptionData) (*domain.Prescription, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	p, conv, err := s.patients.Resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}

	rx := domain.Prescription{
		ID:               codes.NewPrescriptionID(),
		PatientID:        p.ID,
		PatientName:      p.Name,
		Date:             s.now().UTC().Format(time.RFC3339),
		PrescriptionData: data,
	}

	chat := make([]logservice.ChatTurn, 0, len(conv.Chat)+1)
	chat = append(chat, conv.Chat...)
	chat = append(chat, ChatTurn(data))

	report := conv.Report.Clone()
	report.Append(logservice.KeyPrescriptions, rx)

	if s.cfg.LegacyCreate {
		_, err = s.api.Create(ctx, logservice.CreateRequest{
			Chat:     chat,
			UserInfo: lo.FromPtr(conv.UserInfo),
			Report:   report,
			Matches:  conv.Matches,
		})
	} else {
		_, err = s.api.Update(ctx, p.ConversationID, logservice.UpdateRequest{
			Chat:     chat,
			UserInfo: conv.UserInfo,
			Report:   report,
			Matches:  conv.Matches,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("issue prescription: %w", err)
	}

	slog.InfoContext(ctx, "prescription issued", "prescription_id", rx.ID, "patient_id", p.ID)
	notification.Send(ctx, s.notifier, func(n notification.Notifier) error {
		return n.PrescriptionIssued(ctx, *p, rx)
	})
	return &rx, nil
}

func (s *prescriptionService) List(ctx context.Context, patientID string) ([]domain.Prescription, error) {
	_, conv, err := s.patients.Resolve(ctx, patientID)
	switch {
	case errors.Is(err, patient.ErrNoConversation), errors.Is(err, patient.ErrConversationNotFound):
		return []domain.Prescription{}, nil
	case err != nil:
		return nil, err
	}
	return FromConversations(ctx, []logservice.Conversation{*conv}), nil
}

func (s *prescriptionService) ListAll(ctx context.Context) ([]domain.Prescription, error) {
	convs, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	return FromConversations(ctx, convs), nil
}

// ChatTurn renders a prescription as the doctor's chat message.
func ChatTurn(data domain.PrescriptionData) logservice.ChatTurn {
	var b strings.Builder
	fmt.Fprintf(&b, "Prescription issued: %s. Dosage: %s.", data.Medications, data.Dosage)
	if data.Instructions != "" {
		fmt.Fprintf(&b, " Instructions: %s.", data.Instructions)
	}
	if data.Notes != "" {
		fmt.Fprintf(&b, " Notes: %s.", data.Notes)
	}
	return logservice.NewChatTurn(SpeakerDoctor, b.String())
}

// FromConversations flattens report.prescriptions across convs.
func FromConversations(ctx context.Context, convs []logservice.Conversation) []domain.Prescription {
	return lo.FlatMap(convs, func(c logservice.Conversation, _ int) []domain.Prescription {
		list, err := logservice.ReportList[domain.Prescription](c.Report, logservice.KeyPrescriptions)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed prescriptions", "conversation_id", c.ID, "error", err)
			return nil
		}
		return list
	})
}

func validate(data domain.PrescriptionData) error {
	var problems []string
	if strings.TrimSpace(data.Medications) == "" {
		problems = append(problems, "medications are required")
	}
	if strings.TrimSpace(data.Dosage) == "" {
		problems = append(problems, "dosage is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPrescription, strings.Join(problems, "; "))
	}
	return nil
}
