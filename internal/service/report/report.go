package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/patient"
	"github.com/pulseai/pulsedesk/pkg/constants"
	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/util/codes"
)

type Config struct {
	// CreatedBy is recorded on every report.
	CreatedBy string
}

type Service interface {
	// Save appends a report to the patient's conversation and makes its
	// content the conversation summary.
	Save(ctx context.Context, patientID, content string) (*domain.PatientReport, error)
	// List returns the patient's reports, or none when the patient has no
	// reachable conversation.
	List(ctx context.Context, patientID string) ([]domain.PatientReport, error)
	ListAll(ctx context.Context) ([]domain.PatientReport, error)
}

type reportService struct {
	api       logservice.API
	patients  patient.Service
	createdBy string
	now       func() time.Time
}

func New(api logservice.API, patients patient.Service, cfg Config) Service {
	return &reportService{
		api:       api,
		patients:  patients,
		createdBy: lo.Ternary(cfg.CreatedBy != "", cfg.CreatedBy, constants.DefaultClinician),
		now:       time.Now,
	}
}

func (s *reportService) Save(ctx context.Context, patientID, content string) (*domain.PatientReport, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyReport
	}

	p, conv, err := s.patients.Resolve(ctx, patientID)
	if err != nil {
		return nil, err
	}

	rep := domain.PatientReport{
		ID:        codes.NewReportID(),
		PatientID: p.ID,
		Date:      s.now().UTC().Format(time.RFC3339),
		Content:   content,
		CreatedBy: s.createdBy,
	}

	updated := conv.Report.Clone()
	updated.Append(logservice.KeyPatientReports, rep)
	updated[logservice.KeySummary] = content

	if _, err := s.api.Update(ctx, p.ConversationID, logservice.UpdateRequest{Report: updated}); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	slog.InfoContext(ctx, "patient report saved", "report_id", rep.ID, "patient_id", p.ID)
	return &rep, nil
}

func (s *reportService) List(ctx context.Context, patientID string) ([]domain.PatientReport, error) {
	_, conv, err := s.patients.Resolve(ctx, patientID)
	switch {
	case errors.Is(err, patient.ErrNoConversation), errors.Is(err, patient.ErrConversationNotFound):
		return []domain.PatientReport{}, nil
	case err != nil:
		return nil, err
	}
	return FromConversations(ctx, []logservice.Conversation{*conv}), nil
}

func (s *reportService) ListAll(ctx context.Context) ([]domain.PatientReport, error) {
	convs, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return FromConversations(ctx, convs), nil
}

// FromConversations flattens report.patientReports across convs.
func FromConversations(ctx context.Context, convs []logservice.Conversation) []domain.PatientReport {
	return lo.FlatMap(convs, func(c logservice.Conversation, _ int) []domain.PatientReport {
		list, err := logservice.ReportList[domain.PatientReport](c.Report, logservice.KeyPatientReports)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed patient reports", "conversation_id", c.ID, "error", err)
			return nil
		}
		return list
	})
}
