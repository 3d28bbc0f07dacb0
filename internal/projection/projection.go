// Package projection derives dashboard patients from conversation records.
//
// The age and gender detection is a best-effort text heuristic. Its
// fallbacks (age 30, gender "Unknown") and its scan order are part of the
// observable behavior and must not change silently.
package projection

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/pkg/constants"
	"github.com/pulseai/pulsedesk/pkg/logservice"
)

const (
	DefaultAge  = 30
	UnknownName = "Unknown Patient"

	patientIDPrefix = "PT-"
	patientIDLength = 8
	dateLayout      = "2006-01-02"
)

var ageRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:years old|yrs|year old)\b`)

// ExtractPatient projects conv into a patient. It returns nil when the
// conversation or its user info is missing.
func ExtractPatient(conv *logservice.Conversation, today time.Time) *domain.Patient {
	if conv == nil || conv.UserInfo == nil {
		return nil
	}

	info := conv.Report.PatientInfo()
	age, gender := info.Age, info.Gender
	notes := Notes(conv.Report)

	if (age == 0 || gender == "") && len(conv.Chat) > 0 {
		text := ChatText(conv.Chat)
		if age == 0 {
			age = DetectAge(text)
		}
		if gender == "" {
			gender = DetectGender(text)
		}
	}

	id := PatientID(conv.ID)
	return &domain.Patient{
		ID:             id,
		Name:           lo.Ternary(conv.UserInfo.Name != "", conv.UserInfo.Name, UnknownName),
		Age:            lo.Ternary(age != 0, age, DefaultAge),
		Gender:         lo.Ternary(gender != "", gender, domain.GenderUnknown),
		Contact:        conv.UserInfo.PhoneNumber,
		Email:          conv.UserInfo.Email,
		LastVisit:      today.Format(dateLayout),
		Status:         domain.PatientActive,
		ProfileImage:   AvatarURL(lo.Ternary(conv.UserInfo.Name != "", conv.UserInfo.Name, id)),
		Notes:          notes,
		ConversationID: conv.ID,
	}
}

// ExtractPatients projects every conversation that carries a user name.
func ExtractPatients(convs []logservice.Conversation, today time.Time) []domain.Patient {
	named := lo.Filter(convs, func(c logservice.Conversation, _ int) bool { return c.HasName() })
	out := make([]domain.Patient, 0, len(named))
	for i := range named {
		if p := ExtractPatient(&named[i], today); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// ChatText joins the text of every turn with single spaces and lower-cases
// the result.
func ChatText(chat []logservice.ChatTurn) string {
	texts := lo.Map(chat, func(t logservice.ChatTurn, _ int) string { return t.Text() })
	return strings.ToLower(strings.Join(texts, " "))
}

// DetectAge returns the first "<n> years old" style mention, or 0.
func DetectAge(text string) int {
	m := ageRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// DetectGender checks male phrases before female ones and returns "" when
// neither appears. text is expected to be lower-cased.
func DetectGender(text string) string {
	switch {
	case strings.Contains(text, " male ") || strings.Contains(text, "i am male"):
		return domain.GenderMale
	case strings.Contains(text, " female ") || strings.Contains(text, "i am female"):
		return domain.GenderFemale
	default:
		return ""
	}
}

// Notes prefers the summary and falls back to the assessment.
func Notes(r logservice.Report) string {
	if s := r.String(logservice.KeySummary); s != "" {
		return s
	}
	return r.String(logservice.KeyAssessment)
}

// PatientID derives the dashboard id from a conversation id.
func PatientID(conversationID string) string {
	if len(conversationID) > patientIDLength {
		conversationID = conversationID[:patientIDLength]
	}
	return patientIDPrefix + conversationID
}

func AvatarURL(seed string) string {
	return constants.AvatarBaseURL + url.PathEscape(seed) + ".svg"
}
