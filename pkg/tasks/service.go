// Package tasks handles standalone work items. Tasks have no relationship
// to parties or inquiries; only the dashboard's pending count and the
// assignedTo scoping rule tie them to the rest of the system.
package tasks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexgencrm/backend/pkg/domain"
	"github.com/nexgencrm/backend/pkg/models"
)

// Service handles task operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new task service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateTaskRequest carries a new task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	AssignedTo  string `json:"assignedTo"`
	CreatedBy   string `json:"createdBy"`
}

// UpdateTaskRequest merges only the supplied fields.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	AssignedTo  *string `json:"assignedTo"`
}

// Create stores a new task.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, domain.NewValidationError("title is required")
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   req.CreatedBy,
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if req.DueDate != "" {
		if d, err := models.ParseDate(req.DueDate); err == nil {
			task.DueDate = &d
		}
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &task, nil
}

// List returns tasks, newest first.
func (s *Service) List(ctx context.Context) ([]models.Task, error) {
	var tasksList []models.Task
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&tasksList).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return tasksList, nil
}

// Get returns one task by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewMalformedIDError("task")
	}
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("Task")
	}
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return &task, nil
}

// Update merges the supplied fields into an existing task.
func (s *Service) Update(ctx context.Context, id string, req UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		if d, perr := models.ParseDate(*req.DueDate); perr == nil {
			task.DueDate = &d
		}
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}

	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, domain.NewInternalError(err)
	}
	return task, nil
}

// Delete removes a task by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return domain.NewInternalError(err)
	}
	return nil
}
