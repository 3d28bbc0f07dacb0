package app

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/service/appointment"
	"github.com/pulseai/pulsedesk/internal/service/conversation"
	"github.com/pulseai/pulsedesk/internal/service/notification"
	"github.com/pulseai/pulsedesk/internal/service/patient"
	"github.com/pulseai/pulsedesk/internal/service/prescription"
	"github.com/pulseai/pulsedesk/internal/service/report"
	"github.com/pulseai/pulsedesk/pkg/email"
	"github.com/pulseai/pulsedesk/pkg/logservice"
	"github.com/pulseai/pulsedesk/pkg/sms"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		fx.Annotate(ProvideDirectNotifier, fx.ResultTags(`name:"direct"`)),
		fx.Annotate(ProvideNotifier, fx.ParamTags(``, `name:"direct"`)),
		ProvidePatientService,
		ProvideAppointmentService,
		ProvideReportService,
		ProvidePrescriptionService,
		ProvideConversationService,
		ProvideDashboardStore,
	),
)

// ProvideDirectNotifier delivers over email and SMS inline.
func ProvideDirectNotifier(cfg *config.Config, mailer *email.Client, texter *sms.Client) notification.Notifier {
	return notification.New(mailer, texter, notification.Config{
		Signature: email.Signature{
			Clinician: cfg.Clinician.Name,
			Title:     cfg.Clinician.Title,
			Practice:  cfg.Clinician.Practice,
		},
		PhoneRegion: cfg.Clinician.PhoneRegion,
	})
}

// ProvideNotifier publishes to NATS when a connection exists and falls back
// to inline delivery otherwise.
func ProvideNotifier(nc *nats.Conn, direct notification.Notifier) notification.Notifier {
	if nc == nil {
		return direct
	}
	return notification.NewPublisher(nc)
}

func ProvidePatientService(api logservice.API, cfg *config.Config) patient.Service {
	return patient.New(api, patient.Config{PhoneRegion: cfg.Clinician.PhoneRegion})
}

func ProvideAppointmentService(api logservice.API, patients patient.Service, n notification.Notifier) appointment.Service {
	return appointment.New(api, patients, n)
}

func ProvideReportService(api logservice.API, patients patient.Service, cfg *config.Config) report.Service {
	return report.New(api, patients, report.Config{CreatedBy: cfg.Clinician.Name})
}

func ProvidePrescriptionService(
	api logservice.API,
	patients patient.Service,
	n notification.Notifier,
	cfg *config.Config,
) prescription.Service {
	return prescription.New(api, patients, n, prescription.Config{
		LegacyCreate: cfg.LogService.LegacyPrescriptionCreate,
	})
}

func ProvideConversationService(api logservice.API) conversation.Service {
	return conversation.New(api)
}

func ProvideDashboardStore(api logservice.API) *dashboard.Store {
	return dashboard.NewStore(dashboard.NewRemoteLoader(api))
}
