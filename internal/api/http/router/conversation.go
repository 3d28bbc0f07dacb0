package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/api/http/handler"
)

func (r *Router) registerConversationRoutes(api fiber.Router, ch *handler.ConversationHandler) {
	convs := api.Group("/conversations")

	convs.Get("/", ch.Browse)
	// registered before /:id so it is not captured as an id
	convs.Get("/candidates", ch.Candidates)
	convs.Get("/:id", ch.Get)
	convs.Post("/:id/patient", ch.ClaimForPatient)
}
