package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/dashboard"
	"github.com/nexgencrm/backend/pkg/export"
	"github.com/nexgencrm/backend/pkg/followup"
	"github.com/nexgencrm/backend/pkg/metrics"
	"github.com/nexgencrm/backend/pkg/middleware"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/party"
)

// LeadHandler handles lead CRUD, follow-ups, the follow-up summary and
// lead exports.
type LeadHandler struct {
	parties   *party.Service
	followups *followup.Service
	exports   *export.Service
	dashboard *dashboard.Service
	metrics   *metrics.Metrics
}

// NewLeadHandler creates a new lead handler. The dashboard service is used
// to invalidate cached summaries after mutations and may be nil.
func NewLeadHandler(parties *party.Service, followups *followup.Service, exports *export.Service, dash *dashboard.Service, m *metrics.Metrics) *LeadHandler {
	return &LeadHandler{parties: parties, followups: followups, exports: exports, dashboard: dash, metrics: m}
}

func (h *LeadHandler) invalidateDashboard(ctx context.Context) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(ctx)
	}
}

// ListLeads handles GET /api/leads. Non-admin callers only see leads
// assigned to them.
func (h *LeadHandler) ListLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	caller := middleware.CallerFromContext(c)
	leads, err := h.parties.List(ctx, models.KindLead, &caller)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, leads)
}

// GetLead handles GET /api/leads/:id.
func (h *LeadHandler) GetLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lead, err := h.parties.Get(ctx, models.KindLead, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, lead)
}

// CreateLead handles POST /api/leads.
func (h *LeadHandler) CreateLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req party.CreatePartyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	lead, err := h.parties.Create(ctx, models.KindLead, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordLeadCreated()
	}
	h.invalidateDashboard(ctx)
	return c.JSON(http.StatusCreated, lead)
}

// UpdateLead handles PUT /api/leads/:id.
func (h *LeadHandler) UpdateLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req party.UpdatePartyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	lead, err := h.parties.Update(ctx, models.KindLead, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	h.invalidateDashboard(ctx)
	return c.JSON(http.StatusOK, lead)
}

// DeleteLead handles DELETE /api/leads/:id.
func (h *LeadHandler) DeleteLead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.parties.Delete(ctx, models.KindLead, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	h.invalidateDashboard(ctx)
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Lead deleted successfully"})
}

// AddFollowUp handles POST /api/leads/:id/followups.
func (h *LeadHandler) AddFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req followup.AddLeadFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if req.EnterBy == "" {
		req.EnterBy = middleware.CallerFromContext(c).Name
	}

	fu, err := h.followups.AddLeadFollowUp(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordFollowUpScheduled("lead")
	}
	return c.JSON(http.StatusCreated, fu)
}

// ListFollowUps handles GET /api/leads/:id/followups.
func (h *LeadHandler) ListFollowUps(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	fus, err := h.followups.ListLeadFollowUps(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, fus)
}

// UpdateFollowUp handles PUT /api/leads/:id/followups/:followupId.
func (h *LeadHandler) UpdateFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req followup.UpdateLeadFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	fu, err := h.followups.UpdateLeadFollowUp(ctx, c.Param("id"), c.Param("followupId"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, fu)
}

// DeleteFollowUp handles DELETE /api/leads/:id/followups/:followupId.
func (h *LeadHandler) DeleteFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.followups.DeleteLeadFollowUp(ctx, c.Param("id"), c.Param("followupId")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Follow-up deleted successfully"})
}

// FollowUpSummary handles GET /api/leads/dashboard/followups/summary. Buckets are
// split at the caller's local start of day.
func (h *LeadHandler) FollowUpSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	caller := middleware.CallerFromContext(c)
	summary, err := h.followups.Summary(ctx, caller, time.Now())
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportLeads handles GET /api/leads/export?format=csv|excel.
func (h *LeadHandler) ExportLeads(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	format := c.QueryParam("format")
	if format == "" {
		format = export.FormatCSV
	}

	caller := middleware.CallerFromContext(c)
	result, err := h.exports.ExportLeads(ctx, caller, format)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordExportCreated(format)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	return c.Blob(http.StatusOK, result.ContentType, result.Content)
}
