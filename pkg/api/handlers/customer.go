package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/party"
)

// CustomerHandler handles customer CRUD.
type CustomerHandler struct {
	parties *party.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(parties *party.Service) *CustomerHandler {
	return &CustomerHandler{parties: parties}
}

// ListCustomers handles GET /api/customers.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customers, err := h.parties.List(ctx, models.KindCustomer, nil)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// GetCustomer handles GET /api/customers/:id.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customer, err := h.parties.Get(ctx, models.KindCustomer, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer handles POST /api/customers.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req party.CreatePartyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	customer, err := h.parties.Create(ctx, models.KindCustomer, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer handles PUT /api/customers/:id.
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req party.UpdatePartyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	customer, err := h.parties.Update(ctx, models.KindCustomer, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles DELETE /api/customers/:id.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.parties.Delete(ctx, models.KindCustomer, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Customer deleted successfully"})
}
