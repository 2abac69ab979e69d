package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/dashboard"
	"github.com/nexgencrm/backend/pkg/middleware"
)

// DashboardHandler serves the dashboard summary.
type DashboardHandler struct {
	dashboard *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: svc}
}

// Summary handles GET /api/dashboard/summary. Counts reflect the caller's
// visibility scope; admins see organization-wide numbers.
func (h *DashboardHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	caller := middleware.CallerFromContext(c)
	summary, err := h.dashboard.Summary(ctx, caller)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
