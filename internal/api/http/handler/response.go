package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/api/http/middleware"
	"github.com/pulseai/pulsedesk/internal/service/conversation"
	"github.com/pulseai/pulsedesk/internal/service/patient"
	"github.com/pulseai/pulsedesk/pkg/logservice"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

func badGateway(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "log service unavailable"})
}

// mapCommonError covers the failures every resource shares: a patient or
// conversation that cannot be found, a patient/conversation pairing that
// is missing or taken, and an unreachable log service.
func mapCommonError(c fiber.Ctx, err error) error {
	rid, _ := middleware.RequestIDFromFiber(c)
	var status *logservice.StatusError
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrConversationNotFound),
		errors.Is(err, conversation.ErrNotFound),
		errors.Is(err, logservice.ErrNotFound):
		return notFound(c, "conversation not found")
	case errors.Is(err, patient.ErrNoConversation),
		errors.Is(err, patient.ErrAlreadyLinked),
		errors.Is(err, patient.ErrConversationClaimed):
		return conflict(c, err.Error())
	case errors.As(err, &status):
		slog.ErrorContext(c.Context(), "log service rejected request", "request_id", rid, "status", status.StatusCode, "error", err)
		return badGateway(c)
	default:
		slog.ErrorContext(c.Context(), "request failed", "request_id", rid, "path", c.Path(), "error", err)
		return badGateway(c)
	}
}
