// Package errors translates service-layer errors into JSON responses.
package errors

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
)

// Respond maps a service error onto the matching HTTP status with a
// `{"message": ...}` body. Internal details are logged, never exposed.
func Respond(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err), domain.IsMalformedID(err):
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: domain.Message(err),
		})
	case domain.IsNotFound(err):
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Message: domain.Message(err),
		})
	case domain.IsConflict(err):
		return c.JSON(http.StatusConflict, models.ErrorResponse{
			Message: domain.Message(err),
		})
	default:
		// Log the actual error for debugging
		log.Printf("[INTERNAL ERROR] Path: %s, Error: %v", c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "An internal error occurred. Please try again later.",
		})
	}
}

// BadRequest returns a 400 with the given message.
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: message})
}

// Unauthorized returns a 401 with the given message.
func Unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: message})
}

// NotFound returns a 404 with the given message.
func NotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: message})
}
