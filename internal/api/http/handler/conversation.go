package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/service/conversation"
	"github.com/pulseai/pulsedesk/internal/service/patient"
)

type ConversationHandler struct {
	svc      conversation.Service
	patients patient.Service
	store    *dashboard.Store
}

func NewConversationHandler(svc conversation.Service, patients patient.Service, store *dashboard.Store) *ConversationHandler {
	return &ConversationHandler{svc: svc, patients: patients, store: store}
}

// GET /conversations
func (h *ConversationHandler) Browse(c fiber.Ctx) error {
	convs, err := h.svc.Browse(c.Context(), c.Query("q"))
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, convs)
}

// GET /conversations/:id
func (h *ConversationHandler) Get(c fiber.Ctx) error {
	conv, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, conv)
}

// GET /conversations/candidates
//
// Anonymous conversations a new patient can be attached to.
func (h *ConversationHandler) Candidates(c fiber.Ctx) error {
	convs, err := h.svc.Candidates(c.Context())
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, convs)
}

// POST /conversations/:id/patient
func (h *ConversationHandler) ClaimForPatient(c fiber.Ctx) error {
	var in patient.Input
	if err := c.Bind().JSON(&in); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.patients.ClaimConversation(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapPatientError(c, err)
	}

	h.store.Dispatch(dashboard.PatientAdded{Patient: *p})
	return created(c, p)
}
