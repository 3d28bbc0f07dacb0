package records

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/pkg/logservice"
)

func TestWritePatients(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	writePatients(cmd, []domain.Patient{
		{ID: "PT-aaaaaaaa", Name: "Noah Kim", Age: 41, Gender: "Male", Email: "noah@example.com", ConversationID: "aaaaaaaa0000"},
	})

	out := buf.String()
	for _, want := range []string{"CONVERSATION", "PT-aaaaaaaa", "Noah Kim", "41", "aaaaaaaa0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteConversations(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	writeConversations(cmd, []logservice.Conversation{
		{
			ID:       "c1",
			Chat:     []logservice.ChatTurn{logservice.NewChatTurn("User", "hi"), logservice.NewChatTurn("AI", "hello")},
			UserInfo: &logservice.UserInfo{Name: "Mia Chen"},
			Matches: map[string]logservice.ConditionMatch{
				"match_1": {Name: "Asthma", Severity: logservice.SeverityHigh, Count: 1},
			},
		},
		{ID: "c2"},
	})

	out := buf.String()
	for _, want := range []string{"TURNS", "Mia Chen", "c2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
