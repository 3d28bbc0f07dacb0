package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseai/pulsedesk/internal/projection"
	"github.com/pulseai/pulsedesk/internal/service/appointment"
	"github.com/pulseai/pulsedesk/internal/service/prescription"
	"github.com/pulseai/pulsedesk/internal/service/report"
	"github.com/pulseai/pulsedesk/pkg/logservice"
)

// RemoteLoader builds a snapshot from one list call against the log
// service.
type RemoteLoader struct {
	api logservice.API
	now func() time.Time
}

func NewRemoteLoader(api logservice.API) *RemoteLoader {
	return &RemoteLoader{api: api, now: time.Now}
}

func (l *RemoteLoader) Load(ctx context.Context) (Loaded, error) {
	convs, err := l.api.List(ctx)
	if err != nil {
		return Loaded{}, fmt.Errorf("load conversations: %w", err)
	}

	now := l.now()
	return Loaded{
		Patients:      projection.ExtractPatients(convs, now),
		Appointments:  appointment.FromConversations(ctx, convs),
		Reports:       report.FromConversations(ctx, convs),
		Prescriptions: prescription.FromConversations(ctx, convs),
		Critical:      criticalConversations(convs),
		At:            now,
	}, nil
}

func criticalConversations(convs []logservice.Conversation) map[string]bool {
	out := map[string]bool{}
	for i := range convs {
		for _, m := range convs[i].AllMatches() {
			if m.Severity == logservice.SeverityHigh {
				out[convs[i].ID] = true
				break
			}
		}
	}
	return out
}
