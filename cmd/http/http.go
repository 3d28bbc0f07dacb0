package http

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulseai/pulsedesk/config"
	httpapi "github.com/pulseai/pulsedesk/internal/api/http"
)

// NewHTTPCommand groups the commands that run the dashboard API.
func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Dashboard API server",
	}
	cmd.AddCommand(newStartCommand())
	return cmd
}

func newStartCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the dashboard API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			httpapi.Start(cfg, shutdownTimeout)
			return nil
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "how long to wait for in-flight requests on shutdown")
	return cmd
}
