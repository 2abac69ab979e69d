package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nexgencrm/backend/config"
	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/auth"
	"github.com/nexgencrm/backend/pkg/metrics"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/party"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	parties *party.Service
	cfg     *config.Config
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(parties *party.Service, cfg *config.Config, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{parties: parties, cfg: cfg, metrics: m}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *models.Party `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req party.CreatePartyRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if req.Password == "" {
		return apierrors.BadRequest(c, "Password is required")
	}
	if req.Role == "" {
		req.Role = "Sales"
	}

	user, err := h.parties.Create(ctx, models.KindUser, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apierrors.BadRequest(c, "Email and password are required")
	}

	user, err := h.parties.FindByEmail(ctx, req.Email)
	if err != nil {
		h.recordLogin(false)
		return apierrors.Unauthorized(c, "Invalid email or password")
	}

	if user.Kind != models.KindUser || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.recordLogin(false)
		return apierrors.Unauthorized(c, "Invalid email or password")
	}

	token, err := auth.GenerateJWT(user.ID, user.Role, user.Name, h.cfg.JWTSecret, h.cfg.JWTExpirationHours)
	if err != nil {
		return apierrors.Respond(c, err)
	}

	h.recordLogin(true)
	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *AuthHandler) recordLogin(success bool) {
	if h.metrics != nil {
		h.metrics.RecordLoginAttempt(success)
	}
}
