package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/api/http/handler"
)

func (r *Router) registerDashboardRoutes(api fiber.Router, h *handler.DashboardHandler) {
	d := api.Group("/dashboard")
	d.Get("/", h.View)
	d.Post("/refresh", h.Refresh)
}
