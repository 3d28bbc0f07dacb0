package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/appointment"
)

type AppointmentHandler struct {
	svc   appointment.Service
	store *dashboard.Store
}

func NewAppointmentHandler(svc appointment.Service, store *dashboard.Store) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, store: store}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	if errors.Is(err, appointment.ErrInvalidAppointment) {
		return badRequest(c, err.Error())
	}
	return mapCommonError(c, err)
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	appts, err := h.svc.List(c.Context())
	if err != nil {
		return mapAppointmentError(c, err)
	}

	if status := c.Query("status"); status != "" && status != domain.FilterAll {
		appts = lo.Filter(appts, func(a domain.Appointment, _ int) bool { return a.Status == status })
	}
	return ok(c, appts)
}

// GET /patients/:id/appointments
func (h *AppointmentHandler) ListForPatient(c fiber.Ctx) error {
	appts, err := h.svc.ListForPatient(c.Context(), c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appts)
}

// POST /patients/:id/appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body appointment.BookRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	body.PatientID = c.Params("id")

	appt, err := h.svc.Book(c.Context(), body)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	h.store.Dispatch(dashboard.AppointmentBooked{Appointment: *appt})
	return created(c, appt)
}
