package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/followup"
	"github.com/nexgencrm/backend/pkg/lifecycle"
	"github.com/nexgencrm/backend/pkg/metrics"
	"github.com/nexgencrm/backend/pkg/middleware"
	"github.com/nexgencrm/backend/pkg/models"
)

// InquiryHandler handles inquiry CRUD and inquiry follow-ups.
type InquiryHandler struct {
	lifecycle *lifecycle.Service
	followups *followup.Service
	metrics   *metrics.Metrics
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(lc *lifecycle.Service, followups *followup.Service, m *metrics.Metrics) *InquiryHandler {
	return &InquiryHandler{lifecycle: lc, followups: followups, metrics: m}
}

// ListInquiries handles GET /api/inquiries.
func (h *InquiryHandler) ListInquiries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	inquiries, err := h.lifecycle.ListInquiries(ctx)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, inquiries)
}

// GetInquiry handles GET /api/inquiries/:id.
func (h *InquiryHandler) GetInquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inquiry, err := h.lifecycle.GetInquiry(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, inquiry)
}

// CreateInquiry handles POST /api/inquiries.
func (h *InquiryHandler) CreateInquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req lifecycle.CreateInquiryRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	inquiry, err := h.lifecycle.CreateInquiry(ctx, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, inquiry)
}

// UpdateInquiry handles PUT /api/inquiries/:id.
func (h *InquiryHandler) UpdateInquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req lifecycle.UpdateInquiryRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	inquiry, err := h.lifecycle.UpdateInquiry(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, inquiry)
}

// DeleteInquiry handles DELETE /api/inquiries/:id.
func (h *InquiryHandler) DeleteInquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.lifecycle.DeleteInquiry(ctx, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Inquiry deleted successfully"})
}

// AddFollowUp handles POST /api/inquiries/:id/followups.
func (h *InquiryHandler) AddFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req followup.AddInquiryFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if req.CreatedBy == "" {
		req.CreatedBy = middleware.CallerFromContext(c).Name
	}

	fu, err := h.followups.AddInquiryFollowUp(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordFollowUpScheduled("inquiry")
	}
	return c.JSON(http.StatusCreated, fu)
}

// UpdateFollowUp handles PUT /api/inquiries/:id/followups/:followupId.
func (h *InquiryHandler) UpdateFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req followup.UpdateInquiryFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	fu, err := h.followups.UpdateInquiryFollowUp(ctx, c.Param("id"), c.Param("followupId"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, fu)
}

// DeleteFollowUp handles DELETE /api/inquiries/:id/followups/:followupId.
func (h *InquiryHandler) DeleteFollowUp(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.followups.DeleteInquiryFollowUp(ctx, c.Param("id"), c.Param("followupId")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Follow-up deleted successfully"})
}
