package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/dashboard"
	"github.com/pulseai/pulsedesk/internal/service/report"
)

type ReportHandler struct {
	svc   report.Service
	store *dashboard.Store
}

func NewReportHandler(svc report.Service, store *dashboard.Store) *ReportHandler {
	return &ReportHandler{svc: svc, store: store}
}

// GET /patients/:id/reports
func (h *ReportHandler) List(c fiber.Ctx) error {
	reports, err := h.svc.List(c.Context(), c.Params("id"))
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, reports)
}

// POST /patients/:id/reports
func (h *ReportHandler) Save(c fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	r, err := h.svc.Save(c.Context(), c.Params("id"), body.Content)
	if err != nil {
		if errors.Is(err, report.ErrEmptyReport) {
			return badRequest(c, err.Error())
		}
		return mapCommonError(c, err)
	}

	h.store.Dispatch(dashboard.ReportSaved{Report: *r})
	return created(c, r)
}
