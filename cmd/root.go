package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/pulseai/pulsedesk/cmd/http"
	recordscmd "github.com/pulseai/pulsedesk/cmd/records"
	systemcmd "github.com/pulseai/pulsedesk/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "pulsedesk",
	Short: "PulseDesk clinical front-desk dashboard server.",
	Long: `PulseDesk serves the front-desk dashboard API. Patients, appointments,
reports and prescriptions are projected out of, and written back into,
conversation records held by the remote conversation-log service.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(recordscmd.NewPatientsCommand())
	rootCmd.AddCommand(recordscmd.NewConversationsCommand())
}
