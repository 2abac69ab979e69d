package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nexgencrm/backend/pkg/api/errors"
	"github.com/nexgencrm/backend/pkg/dashboard"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/tasks"
)

// TaskHandler handles task CRUD.
type TaskHandler struct {
	tasks     *tasks.Service
	dashboard *dashboard.Service
}

// NewTaskHandler creates a new task handler. The dashboard service is used
// to invalidate cached summaries after mutations and may be nil.
func NewTaskHandler(svc *tasks.Service, dash *dashboard.Service) *TaskHandler {
	return &TaskHandler{tasks: svc, dashboard: dash}
}

func (h *TaskHandler) invalidateDashboard(ctx context.Context) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(ctx)
	}
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.tasks.List(ctx)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetTask handles GET /api/tasks/:id.
func (h *TaskHandler) GetTask(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	task, err := h.tasks.Get(ctx, c.Param("id"))
	if err != nil {
		return apierrors.Respond(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req tasks.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	task, err := h.tasks.Create(ctx, req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	h.invalidateDashboard(ctx)
	return c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req tasks.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}

	task, err := h.tasks.Update(ctx, c.Param("id"), req)
	if err != nil {
		return apierrors.Respond(c, err)
	}
	h.invalidateDashboard(ctx)
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.tasks.Delete(ctx, c.Param("id")); err != nil {
		return apierrors.Respond(c, err)
	}
	h.invalidateDashboard(ctx)
	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Task deleted successfully"})
}
