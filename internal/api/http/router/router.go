package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/pulseai/pulsedesk/config"
	"github.com/pulseai/pulsedesk/internal/api/http/handler"
	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/service/appointment"
	"github.com/pulseai/pulsedesk/internal/service/conversation"
	"github.com/pulseai/pulsedesk/internal/service/patient"
	"github.com/pulseai/pulsedesk/internal/service/prescription"
	"github.com/pulseai/pulsedesk/internal/service/report"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

const readinessTimeout = 2 * time.Second

// Pinger reports whether the log service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Params struct {
	fx.In

	Cfg             *config.Config
	LogService      Pinger
	Store           *dashboard.Store
	PatientSvc      patient.Service
	AppointmentSvc  appointment.Service
	ReportSvc       report.Service
	PrescriptionSvc prescription.Service
	ConversationSvc conversation.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Handlers
	patientH := handler.NewPatientHandler(r.p.PatientSvc, r.p.Store)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.Store)
	reportH := handler.NewReportHandler(r.p.ReportSvc, r.p.Store)
	prescriptionH := handler.NewPrescriptionHandler(r.p.PrescriptionSvc, r.p.Store)
	conversationH := handler.NewConversationHandler(r.p.ConversationSvc, r.p.PatientSvc, r.p.Store)
	dashboardH := handler.NewDashboardHandler(r.p.Store)

	api := app.Group("/api/v1")

	// 3. Delegate to sub-files
	r.registerPatientRoutes(api, patientH, appointmentH, reportH, prescriptionH)
	r.registerAppointmentRoutes(api, appointmentH)
	r.registerConversationRoutes(api, conversationH)
	r.registerDashboardRoutes(api, dashboardH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
			defer cancel()
			return r.p.LogService.Ping(ctx) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
