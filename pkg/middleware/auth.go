package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nexgencrm/backend/pkg/auth"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/scope"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextUserName = "user_name"
)

// JWTAuth validates the Bearer token and stores the caller's identity in the
// request context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Message: "Missing authorization token",
				})
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Message: "Invalid authorization header format",
				})
			}

			claims, err := auth.ValidateJWT(token, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Message: "Invalid or expired token",
				})
			}

			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextUserRole, claims.Role)
			c.Set(ContextUserName, claims.Name)

			return next(c)
		}
	}
}

// CallerFromContext rebuilds the caller identity stored by JWTAuth.
func CallerFromContext(c echo.Context) scope.Caller {
	caller := scope.Caller{}
	if sub, ok := c.Get(ContextUserID).(string); ok {
		caller.Sub = sub
	}
	if role, ok := c.Get(ContextUserRole).(string); ok {
		caller.Role = role
	}
	if name, ok := c.Get(ContextUserName).(string); ok {
		caller.Name = name
	}
	return caller
}

// RequireAdmin ensures the authenticated caller has the Admin role. It must
// run after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFromContext(c)
			if caller.Sub == "" {
				return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
					Message: "Authentication required",
				})
			}
			if !caller.IsAdmin() {
				return c.JSON(http.StatusForbidden, models.ErrorResponse{
					Message: "Admin access required",
				})
			}
			return next(c)
		}
	}
}
