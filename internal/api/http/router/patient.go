package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/api/http/handler"
)

func (r *Router) registerPatientRoutes(
	api fiber.Router,
	ph *handler.PatientHandler,
	ah *handler.AppointmentHandler,
	rh *handler.ReportHandler,
	rxh *handler.PrescriptionHandler,
) {
	patients := api.Group("/patients")

	// Patient CRUD
	patients.Get("/", ph.List)
	patients.Post("/", ph.Create)

	p := patients.Group("/:id")
	p.Get("/", ph.Get)
	p.Put("/", ph.Update)
	p.Delete("/", ph.Delete)
	p.Put("/conversation", ph.LinkConversation)

	// Appointments
	p.Get("/appointments", ah.ListForPatient)
	p.Post("/appointments", ah.Book)

	// Reports
	p.Get("/reports", rh.List)
	p.Post("/reports", rh.Save)

	// Prescriptions
	p.Get("/prescriptions", rxh.List)
	p.Post("/prescriptions", rxh.Issue)
}
