package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/lifecycle"
	"github.com/nexgencrm/backend/pkg/metrics"
	"github.com/nexgencrm/backend/pkg/models"
)

// BillingHandler handles quotations and proforma invoices.
type BillingHandler struct {
	lifecycle *lifecycle.Service
	metrics   *metrics.Metrics
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(lc *lifecycle.Service, m *metrics.Metrics) *BillingHandler {
	return &BillingHandler{lifecycle: lc, metrics: m}
}

// ListQuotations handles GET /api/quotations.
func (h *BillingHandler) ListQuotations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quotations, err := h.lifecycle.ListQuotations(ctx)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, quotations)
}

// GetQuotation handles GET /api/quotations/:id.
func (h *BillingHandler) GetQuotation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	quotation, err := h.lifecycle.GetQuotation(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, quotation)
}

// CreateQuotation handles POST /api/quotations.
func (h *BillingHandler) CreateQuotation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req lifecycle.CreateQuotationRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	quotation, err := h.lifecycle.CreateQuotation(ctx, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordQuotationCreated()
	}
	return c.JSON(http.StatusCreated, quotation)
}

// UpdateQuotation handles PUT /api/quotations/:id.
func (h *BillingHandler) UpdateQuotation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req lifecycle.UpdateQuotationRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	quotation, err := h.lifecycle.UpdateQuotation(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, quotation)
}

// DeleteQuotation handles DELETE /api/quotations/:id.
func (h *BillingHandler) DeleteQuotation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.lifecycle.DeleteQuotation(ctx, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Quotation deleted successfully"})
}

// ListProformas handles GET /api/proforma-invoices.
func (h *BillingHandler) ListProformas(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	proformas, err := h.lifecycle.ListProformas(ctx)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, proformas)
}

// GetProforma handles GET /api/proforma-invoices/:id.
func (h *BillingHandler) GetProforma(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	proforma, err := h.lifecycle.GetProforma(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, proforma)
}

// CreateProforma handles POST /api/proforma-invoices.
func (h *BillingHandler) CreateProforma(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req lifecycle.CreateProformaRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	proforma, err := h.lifecycle.CreateProforma(ctx, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	if h.metrics != nil {
		h.metrics.RecordProformaCreated()
	}
	return c.JSON(http.StatusCreated, proforma)
}

// UpdateProforma handles PUT /api/proforma-invoices/:id.
func (h *BillingHandler) UpdateProforma(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req lifecycle.UpdateProformaRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	proforma, err := h.lifecycle.UpdateProforma(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, proforma)
}

// DeleteProforma handles DELETE /api/proforma-invoices/:id.
func (h *BillingHandler) DeleteProforma(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.lifecycle.DeleteProforma(ctx, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Proforma invoice deleted successfully"})
}
