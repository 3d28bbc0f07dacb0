package records

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/patient"
)

func NewPatientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Inspect patients projected from the log service",
	}

	cmd.AddCommand(newPatientsListCommand())

	return cmd
}

func newPatientsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := newClient(cmd)
			if err != nil {
				return err
			}
			query, _ := cmd.Flags().GetString("query")

			svc := patient.New(client, patient.Config{PhoneRegion: cfg.Clinician.PhoneRegion})
			patients, err := svc.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list patients: %w", err)
			}
			patients = lo.Filter(patients, func(p domain.Patient, _ int) bool { return p.Matches(query) })

			writePatients(cmd, patients)
			fmt.Fprintf(cmd.OutOrStdout(), "%d patient(s) as of %s\n", len(patients), time.Now().Format(time.DateOnly))
			return nil
		},
	}

	cmd.Flags().StringP("query", "q", "", "Filter by name, id or email")

	return cmd
}

func writePatients(cmd *cobra.Command, patients []domain.Patient) {
	rows := lo.Map(patients, func(p domain.Patient, _ int) []string {
		return []string{p.ID, p.Name, itoa(p.Age), p.Gender, p.Contact, p.Email, p.ConversationID}
	})
	render(cmd.OutOrStdout(), []string{"ID", "Name", "Age", "Gender", "Contact", "Email", "Conversation"}, rows)
}
