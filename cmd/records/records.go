// Package records holds read-only CLI views over the log service.
package records

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/pkg/logservice"
)

func newClient(cmd *cobra.Command) (*config.Config, *logservice.Client, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, logservice.New(logservice.FromCentralConfig(cfg.LogService)), nil
}

func render(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
