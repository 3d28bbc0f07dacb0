package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/domain"
	"github.com/pulseai/pulsedesk/internal/service/prescription"
)

type PrescriptionHandler struct {
	svc   prescription.Service
	store *dashboard.Store
}

func NewPrescriptionHandler(svc prescription.Service, store *dashboard.Store) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc, store: store}
}

// GET /patients/:id/prescriptions
func (h *PrescriptionHandler) List(c fiber.Ctx) error {
	rxs, err := h.svc.List(c.Context(), c.Params("id"))
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, rxs)
}

// POST /patients/:id/prescriptions
func (h *PrescriptionHandler) Issue(c fiber.Ctx) error {
	var body domain.PrescriptionData
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	rx, err := h.svc.Issue(c.Context(), c.Params("id"), body)
	if err != nil {
		if errors.Is(err, prescription.ErrInvalidPrescription) {
			return badRequest(c, err.Error())
		}
		return mapCommonError(c, err)
	}

	h.store.Dispatch(dashboard.PrescriptionIssued{Prescription: *rx})
	return created(c, rx)
}
