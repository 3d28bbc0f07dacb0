package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/pulseai/pulsedesk/internal/dashboard"
)

type DashboardHandler struct {
	store *dashboard.Store
	now   func() time.Time
}

func NewDashboardHandler(store *dashboard.Store) *DashboardHandler {
	return &DashboardHandler{store: store, now: time.Now}
}

// GET /dashboard
//
// q and status update the stored search term and appointment filter when
// present.
func (h *DashboardHandler) View(c fiber.Ctx) error {
	state, err := h.store.Ensure(c.Context())
	if err != nil {
		return mapCommonError(c, err)
	}

	if c.Request().URI().QueryArgs().Has("q") {
		state = h.store.Dispatch(dashboard.SearchChanged{Term: c.Query("q")})
	}
	if c.Request().URI().QueryArgs().Has("status") {
		state = h.store.Dispatch(dashboard.FilterChanged{Status: c.Query("status")})
	}
	return ok(c, dashboard.BuildView(state, h.now()))
}

// POST /dashboard/refresh
func (h *DashboardHandler) Refresh(c fiber.Ctx) error {
	state, err := h.store.Refresh(c.Context())
	if err != nil {
		return mapCommonError(c, err)
	}
	return ok(c, dashboard.BuildView(state, h.now()))
}
