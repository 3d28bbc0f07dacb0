package dashboard

import (
	"time"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/domain"
)

// FilteredPatients applies the search term to name, id and email.
func FilteredPatients(s State) []domain.Patient {
	return lo.Filter(s.Patients, func(p domain.Patient, _ int) bool { return p.Matches(s.SearchTerm) })
}

// FilteredAppointments applies the status filter. FilterAll, or no filter,
// keeps everything.
func FilteredAppointments(s State) []domain.Appointment {
	if s.ActiveFilter == "" || s.ActiveFilter == domain.FilterAll {
		return clone(s.Appointments)
	}
	return lo.Filter(s.Appointments, func(a domain.Appointment, _ int) bool { return a.Status == s.ActiveFilter })
}

func ReportsFor(s State, patientID string) []domain.PatientReport {
	return lo.Filter(s.Reports, func(r domain.PatientReport, _ int) bool { return r.PatientID == patientID })
}

func PrescriptionsFor(s State, patientID string) []domain.Prescription {
	return lo.Filter(s.Prescriptions, func(p domain.Prescription, _ int) bool { return p.PatientID == patientID })
}

type Stats struct {
	TotalPatients       int `json:"totalPatients"`
	AppointmentsToday   int `json:"appointmentsToday"`
	CriticalPatients    int `json:"criticalPatients"`
	PendingAppointments int `json:"pendingAppointments"`
}

func ComputeStats(s State, today time.Time) Stats {
	day := today.Format(time.DateOnly)
	return Stats{
		TotalPatients:       len(s.Patients),
		AppointmentsToday:   lo.CountBy(s.Appointments, func(a domain.Appointment) bool { return a.Date == day }),
		CriticalPatients:    lo.CountBy(s.Patients, func(p domain.Patient) bool { return s.Critical[p.ConversationID] }),
		PendingAppointments: lo.CountBy(s.Appointments, func(a domain.Appointment) bool { return a.Status == domain.AppointmentPending }),
	}
}

// View is the filtered dashboard as the UI renders it.
type View struct {
	Patients      []domain.Patient       `json:"patients"`
	Appointments  []domain.Appointment   `json:"appointments"`
	Reports       []domain.PatientReport `json:"reports"`
	Prescriptions []domain.Prescription  `json:"prescriptions"`
	Stats         Stats                  `json:"stats"`
	SearchTerm    string                 `json:"searchTerm"`
	ActiveFilter  string                 `json:"activeFilter"`
	LoadedAt      time.Time              `json:"loadedAt"`
}

func BuildView(s State, today time.Time) View {
	return View{
		Patients:      FilteredPatients(s),
		Appointments:  FilteredAppointments(s),
		Reports:       clone(s.Reports),
		Prescriptions: clone(s.Prescriptions),
		Stats:         ComputeStats(s, today),
		SearchTerm:    s.SearchTerm,
		ActiveFilter:  s.ActiveFilter,
		LoadedAt:      s.LoadedAt,
	}
}
