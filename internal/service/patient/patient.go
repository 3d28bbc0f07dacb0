package patient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/projection"
	"github.com/pulseai/pulsedesk/pkg/constants"
	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/util/codes"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Input carries the editable patient fields.
type Input struct {
	Name              string `json:"name"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	Contact           string `json:"contact"`
	Email             string `json:"email"`
	NextAppointment   string `json:"nextAppointment"`
	Status            string `json:"status"`
	InsuranceProvider string `json:"insuranceProvider"`
	PolicyNumber      string `json:"policyNumber"`
	Notes             string `json:"notes"`
}

type Config struct {
	PhoneRegion string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context) ([]domain.Patient, error)
	Get(ctx context.Context, id string) (*domain.Patient, error)
	Create(ctx context.Context, in Input) (*domain.Patient, error)
	Update(ctx context.Context, id string, in Input) (*domain.Patient, error)

	// Save writes p to its conversation, creating one when p was never
	// synced. On create, p.ConversationID and p.ID are set from the
	// saved conversation.
	Save(ctx context.Context, p *domain.Patient) error
	Delete(ctx context.Context, patientID, conversationID string) error

	// Resolve finds a patient and loads its conversation.
	Resolve(ctx context.Context, id string) (*domain.Patient, *logservice.Conversation, error)

	// LinkConversation attaches an unsynced patient to an anonymous
	// conversation. A patient that already has a different conversation is
	// refused, as is a conversation that already names a patient.
	LinkConversation(ctx context.Context, p *domain.Patient, conversationID string) error
	// ClaimConversation creates a patient from in on top of an anonymous
	// conversation instead of starting a new one.
	ClaimConversation(ctx context.Context, conversationID string, in Input) (*domain.Patient, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	api    logservice.API
	region string
	now    func() time.Time
}

func New(api logservice.API, cfg Config) Service {
	return &patientService{
		api:    api,
		region: lo.Ternary(cfg.PhoneRegion != "", cfg.PhoneRegion, constants.DefaultPhoneRegion),
		now:    time.Now,
	}
}

func (s *patientService) List(ctx context.Context) ([]domain.Patient, error) {
	convs, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return projection.ExtractPatients(convs, s.now()), nil
}

func (s *patientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	patients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := lo.Find(patients, func(p domain.Patient) bool { return p.ID == id })
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (s *patientService) Create(ctx context.Context, in Input) (*domain.Patient, error) {
	if err := Validate(in, s.region); err != nil {
		return nil, err
	}

	p := s.draft(in)
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *patientService) Update(ctx context.Context, id string, in Input) (*domain.Patient, error) {
	if err := Validate(in, s.region); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, in)

	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *patientService) Save(ctx context.Context, p *domain.Patient) error {
	if !p.Synced() {
		return s.create(ctx, p)
	}

	existing, err := s.api.Get(ctx, p.ConversationID)
	if err != nil {
		if errors.Is(err, logservice.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("load conversation: %w", err)
	}

	userInfo := lo.FromPtr(existing.UserInfo)
	userInfo.Name = p.Name
	userInfo.Email = p.Email
	userInfo.PhoneNumber = p.Contact

	report := existing.Report.Clone()
	report.SetPatientInfo(p.Age, p.Gender)
	if p.Notes != "" {
		report[logservice.KeySummary] = p.Notes
	}

	_, err = s.api.Update(ctx, p.ConversationID, logservice.UpdateRequest{
		Chat:     existing.Chat,
		UserInfo: &userInfo,
		Report:   report,
		Matches:  existing.Matches,
	})
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	return nil
}

func (s *patientService) create(ctx context.Context, p *domain.Patient) error {
	summary := lo.Ternary(p.Notes != "", p.Notes, "New patient record")

	saved, err := s.api.Create(ctx, logservice.CreateRequest{
		Chat: []logservice.ChatTurn{
			logservice.NewChatTurn("User", "Initial patient record for "+p.Name),
		},
		UserInfo: logservice.UserInfo{
			Name:        p.Name,
			Email:       p.Email,
			PhoneNumber: p.Contact,
		},
		Report: logservice.Report{
			logservice.KeyPatientInfo: map[string]any{"age": p.Age, "gender": p.Gender},
			logservice.KeySummary:     summary,
		},
		Matches: map[string]logservice.ConditionMatch{
			"match_1": {Name: "Check Required", Severity: logservice.SeverityModerate, Count: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	slog.InfoContext(ctx, "patient synced", "draft_id", p.ID, "conversation_id", saved.ID)
	p.ConversationID = saved.ID
	p.ID = projection.PatientID(saved.ID)
	return nil
}

func (s *patientService) Delete(ctx context.Context, patientID, conversationID string) error {
	if conversationID == "" {
		return ErrNoConversation
	}
	if err := s.api.Delete(ctx, conversationID); err != nil {
		if errors.Is(err, logservice.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("delete patient %s: %w", patientID, err)
	}
	return nil
}

func (s *patientService) Resolve(ctx context.Context, id string) (*domain.Patient, *logservice.Conversation, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !p.Synced() {
		return nil, nil, ErrNoConversation
	}

	conv, err := s.api.Get(ctx, p.ConversationID)
	if err != nil {
		if errors.Is(err, logservice.ErrNotFound) {
			return nil, nil, ErrConversationNotFound
		}
		return nil, nil, fmt.Errorf("load conversation: %w", err)
	}
	return p, conv, nil
}

func (s *patientService) LinkConversation(ctx context.Context, p *domain.Patient, conversationID string) error {
	if p.Synced() {
		if p.ConversationID == conversationID {
			return nil
		}
		return ErrAlreadyLinked
	}

	conv, err := s.api.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, logservice.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("load conversation: %w", err)
	}
	if conv.HasName() {
		return ErrConversationClaimed
	}

	p.ConversationID = conversationID
	if err := s.Save(ctx, p); err != nil {
		p.ConversationID = ""
		return err
	}
	p.ID = projection.PatientID(conversationID)
	return nil
}

func (s *patientService) ClaimConversation(ctx context.Context, conversationID string, in Input) (*domain.Patient, error) {
	if err := Validate(in, s.region); err != nil {
		return nil, err
	}

	p := s.draft(in)
	if err := s.LinkConversation(ctx, p, conversationID); err != nil {
		return nil, err
	}
	return p, nil
}

// draft builds a patient that has not been written anywhere yet.
func (s *patientService) draft(in Input) *domain.Patient {
	p := &domain.Patient{
		ID:        codes.NewPatientID(),
		LastVisit: s.now().Format(time.DateOnly),
		Status:    domain.PatientActive,
	}
	apply(p, in)
	p.ProfileImage = projection.AvatarURL(p.Name)
	return p
}

func apply(p *domain.Patient, in Input) {
	p.Name = in.Name
	p.Age = in.Age
	p.Gender = in.Gender
	p.Contact = in.Contact
	p.Email = in.Email
	p.InsuranceProvider = in.InsuranceProvider
	p.PolicyNumber = in.PolicyNumber
	p.Notes = in.Notes
	if in.NextAppointment != "" {
		p.NextAppointment = in.NextAppointment
	}
	if in.Status != "" {
		p.Status = in.Status
	}
}
