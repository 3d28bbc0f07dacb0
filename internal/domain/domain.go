// Package domain holds the dashboard-level records projected out of, and
// written back into, remote conversation records.
package domain

import "strings"

const (
	PatientActive = "Active"

	GenderMale    = "Male"
	GenderFemale  = "Female"
	GenderUnknown = "Unknown"

	AppointmentPending   = "Pending"
	AppointmentConfirmed = "Confirmed"
	AppointmentCompleted = "Completed"
	AppointmentCancelled = "Cancelled"

	// FilterAll disables the appointment status filter.
	FilterAll = "All"
)

// Patient is a projection of a conversation. A patient without a
// ConversationID has never been synced to the log service.
type Patient struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	Contact           string `json:"contact"`
	Email             string `json:"email"`
	LastVisit         string `json:"lastVisit"`
	NextAppointment   string `json:"nextAppointment"`
	Status            string `json:"status"`
	InsuranceProvider string `json:"insuranceProvider"`
	PolicyNumber      string `json:"policyNumber"`
	ProfileImage      string `json:"profileImage"`
	Notes             string `json:"notes,omitempty"`
	ConversationID    string `json:"conversationId,omitempty"`
}

func (p *Patient) Synced() bool {
	return p != nil && p.ConversationID != ""
}

// Matches reports whether term appears in the name, id or email,
// case-insensitively.
func (p *Patient) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.ID), term) ||
		(p.Email != "" && strings.Contains(strings.ToLower(p.Email), term))
}

type Appointment struct {
	ID           string `json:"id"`
	PatientID    string `json:"patientId"`
	PatientName  string `json:"patientName"`
	ProfileImage string `json:"profileImage"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Type         string `json:"type"`
	Status       string `json:"status"`
}

type PatientReport struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	CreatedBy string `json:"createdBy"`
}

// PrescriptionData is what a clinician fills in when prescribing.
type PrescriptionData struct {
	Medications  string `json:"medications"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	Notes        string `json:"notes"`
}

type Prescription struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	Date        string `json:"date"`
	PrescriptionData
}
