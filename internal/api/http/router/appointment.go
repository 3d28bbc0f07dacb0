package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(api fiber.Router, h *handler.AppointmentHandler) {
	api.Get("/appointments", h.List)
}
