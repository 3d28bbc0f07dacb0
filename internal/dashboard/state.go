// Package dashboard holds the front-desk view state. State changes only
// through Reduce; Store serialises dispatches for concurrent handlers.
package dashboard

import (
	"time"

	"github.com/pulseai/pulsedesk/internal/domain"
)

type State struct {
	Patients      []domain.Patient       `json:"patients"`
	Appointments  []domain.Appointment   `json:"appointments"`
	Reports       []domain.PatientReport `json:"reports"`
	Prescriptions []domain.Prescription  `json:"prescriptions"`

	// Critical holds conversation ids with at least one High severity match.
	Critical map[string]bool `json:"-"`

	SearchTerm   string    `json:"searchTerm"`
	ActiveFilter string    `json:"activeFilter"`
	LoadedAt     time.Time `json:"loadedAt"`
}

func Initial() State {
	return State{
		Patients:      []domain.Patient{},
		Appointments:  []domain.Appointment{},
		Reports:       []domain.PatientReport{},
		Prescriptions: []domain.Prescription{},
		Critical:      map[string]bool{},
		ActiveFilter:  domain.FilterAll,
	}
}
