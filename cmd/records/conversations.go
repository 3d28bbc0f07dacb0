package records

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pulseai/pulsedesk/internal/service/conversation"
	"github.com/pulseai/pulsedesk/pkg/logservice"
)

func NewConversationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "Browse conversation records in the log service",
	}

	cmd.AddCommand(newConversationsListCommand())

	return cmd
}

func newConversationsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := newClient(cmd)
			if err != nil {
				return err
			}
			query, _ := cmd.Flags().GetString("query")

			convs, err := conversation.New(client).Browse(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to list conversations: %w", err)
			}

			writeConversations(cmd, convs)
			return nil
		},
	}

	cmd.Flags().StringP("query", "q", "", "Filter by user details or opening chat turns")

	return cmd
}

func writeConversations(cmd *cobra.Command, convs []logservice.Conversation) {
	rows := lo.Map(convs, func(c logservice.Conversation, _ int) []string {
		info := lo.FromPtr(c.UserInfo)
		high := lo.CountBy(c.AllMatches(), func(m logservice.ConditionMatch) bool {
			return m.Severity == logservice.SeverityHigh
		})
		return []string{c.ID, info.Name, info.Email, info.PhoneNumber, itoa(len(c.Chat)), itoa(high), c.Timestamp}
	})
	render(cmd.OutOrStdout(), []string{"ID", "Name", "Email", "Phone", "Turns", "High", "Timestamp"}, rows)
}
