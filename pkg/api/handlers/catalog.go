package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/catalog"
	"github.com/nexgencrm/backend/pkg/models"
)

// CatalogHandler handles products and lead sources.
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: svc}
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /api/products.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req catalog.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	product, err := h.catalog.CreateProduct(ctx, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req catalog.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	product, err := h.catalog.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Product deleted successfully"})
}

// CreateLeadSourceRequest is the lead source payload.
type CreateLeadSourceRequest struct {
	Name string `json:"name"`
}

// ListLeadSources handles GET /api/lead-sources.
func (h *CatalogHandler) ListLeadSources(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sources, err := h.catalog.ListLeadSources(ctx)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, sources)
}

// CreateLeadSource handles POST /api/lead-sources.
func (h *CatalogHandler) CreateLeadSource(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req CreateLeadSourceRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	source, err := h.catalog.CreateLeadSource(ctx, req.Name)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, source)
}

// DeleteLeadSource handles DELETE /api/lead-sources/:id.
func (h *CatalogHandler) DeleteLeadSource(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.catalog.DeleteLeadSource(ctx, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Lead source deleted successfully"})
}
