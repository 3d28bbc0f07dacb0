package dashboard

import (
	"time"

	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/domain"
)

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

// Loaded replaces all records with a fresh remote load. The view
// settings survive.
type Loaded struct {
	Patients      []domain.Patient
	Appointments  []domain.Appointment
	Reports       []domain.PatientReport
	Prescriptions []domain.Prescription
	Critical      map[string]bool
	At            time.Time
}

type PatientAdded struct{ Patient domain.Patient }

type PatientUpdated struct{ Patient domain.Patient }

type PatientDeleted struct{ PatientID string }

type AppointmentBooked struct{ Appointment domain.Appointment }

type ReportSaved struct{ Report domain.PatientReport }

type PrescriptionIssued struct{ Prescription domain.Prescription }

// ConversationLinked moves a patient onto a conversation; the patient id
// changes with it.
type ConversationLinked struct {
	PreviousID string
	Patient    domain.Patient
}

type SearchChanged struct{ Term string }

type FilterChanged struct{ Status string }

func (Loaded) isAction()             {}
func (PatientAdded) isAction()       {}
func (PatientUpdated) isAction()     {}
func (PatientDeleted) isAction()     {}
func (AppointmentBooked) isAction()  {}
func (ReportSaved) isAction()        {}
func (PrescriptionIssued) isAction() {}
func (ConversationLinked) isAction() {}
func (SearchChanged) isAction()      {}
func (FilterChanged) isAction()      {}

// Reduce returns the state after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Loaded:
		s.Patients = clone(a.Patients)
		s.Appointments = clone(a.Appointments)
		s.Reports = clone(a.Reports)
		s.Prescriptions = clone(a.Prescriptions)
		s.Critical = lo.Assign(a.Critical)
		s.LoadedAt = a.At

	case PatientAdded:
		s.Patients = prepend(s.Patients, a.Patient)

	case PatientUpdated:
		s.Patients = replacePatient(s.Patients, a.Patient.ID, a.Patient)

	case PatientDeleted:
		s.Patients = lo.Reject(s.Patients, func(p domain.Patient, _ int) bool { return p.ID == a.PatientID })

	case AppointmentBooked:
		s.Appointments = prepend(s.Appointments, a.Appointment)
		s.Patients = updatePatient(s.Patients, a.Appointment.PatientID, func(p *domain.Patient) {
			p.NextAppointment = a.Appointment.Date
		})

	case ReportSaved:
		s.Reports = prepend(s.Reports, a.Report)
		s.Patients = updatePatient(s.Patients, a.Report.PatientID, func(p *domain.Patient) {
			p.Notes = a.Report.Content
		})

	case PrescriptionIssued:
		s.Prescriptions = prepend(s.Prescriptions, a.Prescription)

	case ConversationLinked:
		s.Patients = replacePatient(s.Patients, a.PreviousID, a.Patient)

	case SearchChanged:
		s.SearchTerm = a.Term

	case FilterChanged:
		s.ActiveFilter = lo.Ternary(a.Status != "", a.Status, domain.FilterAll)
	}
	return s
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func prepend[T any](in []T, v T) []T {
	out := make([]T, 0, len(in)+1)
	out = append(out, v)
	return append(out, in...)
}

func replacePatient(in []domain.Patient, id string, p domain.Patient) []domain.Patient {
	return lo.Map(in, func(old domain.Patient, _ int) domain.Patient {
		return lo.Ternary(old.ID == id, p, old)
	})
}

func updatePatient(in []domain.Patient, id string, fn func(*domain.Patient)) []domain.Patient {
	return lo.Map(in, func(p domain.Patient, _ int) domain.Patient {
		if p.ID == id {
			fn(&p)
		}
		return p
	})
}
