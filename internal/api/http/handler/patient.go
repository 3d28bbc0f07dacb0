package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"

	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/patient"
)

type PatientHandler struct {
	svc   patient.Service
	store *dashboard.Store
}

func NewPatientHandler(svc patient.Service, store *dashboard.Store) *PatientHandler {
	return &PatientHandler{svc: svc, store: store}
}

func mapPatientError(c fiber.Ctx, err error) error {
	if errors.Is(err, patient.ErrInvalidPatient) {
		return badRequest(c, err.Error())
	}
	return mapCommonError(c, err)
}

// GET /patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	patients, err := h.svc.List(c.Context())
	if err != nil {
		return mapPatientError(c, err)
	}

	if q := c.Query("q"); q != "" {
		patients = lo.Filter(patients, func(p domain.Patient, _ int) bool { return p.Matches(q) })
	}
	return ok(c, patients)
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var body patient.Input
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Create(c.Context(), body)
	if err != nil {
		return mapPatientError(c, err)
	}

	h.store.Dispatch(dashboard.PatientAdded{Patient: *p})
	return created(c, p)
}

// GET /patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	p, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// PUT /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	var body patient.Input
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), c.Params("id"), body)
	if err != nil {
		return mapPatientError(c, err)
	}

	h.store.Dispatch(dashboard.PatientUpdated{Patient: *p})
	return ok(c, p)
}

// DELETE /patients/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapPatientError(c, err)
	}

	if err := h.svc.Delete(c.Context(), p.ID, p.ConversationID); err != nil {
		return mapPatientError(c, err)
	}

	h.store.Dispatch(dashboard.PatientDeleted{PatientID: id})
	return noContent(c)
}

// PUT /patients/:id/conversation
func (h *PatientHandler) LinkConversation(c fiber.Ctx) error {
	var body struct {
		ConversationID string `json:"conversationId"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.ConversationID == "" {
		return badRequest(c, "conversationId is required")
	}

	id := c.Params("id")
	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapPatientError(c, err)
	}
	if err := h.svc.LinkConversation(c.Context(), p, body.ConversationID); err != nil {
		return mapPatientError(c, err)
	}

	h.store.Dispatch(dashboard.ConversationLinked{PreviousID: id, Patient: *p})
	return ok(c, p)
}
