package app

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/event"
	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/task"
	"github.com/propertypassport/api/pkg/logger"
)

// TaskService manages per-property transaction tasks.
type TaskService struct {
	tasks  task.Repository
	access *AccessService
	events *EventService
	logger *logger.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks task.Repository, accessSvc *AccessService, events *EventService, log *logger.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		access: accessSvc,
		events: events,
		logger: log.With("service", "task"),
	}
}

// CreateTaskInput represents the input for creating a task.
type CreateTaskInput struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Notes      string     `json:"notes" validate:"max=2000"`
	DueAt      *time.Time `json:"due_at"`
	AssigneeID string     `json:"assignee_id" validate:"omitempty,uuid"`
}

// Create adds a task to a property. Requires edit permission.
func (s *TaskService) Create(ctx context.Context, propertyID string, input CreateTaskInput, userID shared.ID) (*task.Task, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireEdit(ctx, propID, userID); err != nil {
		return nil, err
	}

	assigneeID, err := optionalID(input.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid assignee id", shared.ErrValidation)
	}

	t, err := task.New(propID, input.Title, input.Notes, input.DueAt, assigneeID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.events.Record(ctx, propID, &userID, event.ActionTaskCreated, "task", idPtr(t.ID()), map[string]any{
		"title": input.Title,
	})

	return t, nil
}

// UpdateTaskInput represents the input for updating a task.
type UpdateTaskInput struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Notes      string     `json:"notes" validate:"max=2000"`
	Status     string     `json:"status" validate:"required,task_status"`
	DueAt      *time.Time `json:"due_at"`
	AssigneeID string     `json:"assignee_id" validate:"omitempty,uuid"`
}

// Update modifies a task. Requires edit permission on the owning property.
func (s *TaskService) Update(ctx context.Context, taskID string, input UpdateTaskInput, userID shared.ID) (*task.Task, error) {
	id, err := shared.IDFromString(taskID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireEdit(ctx, t.PropertyID(), userID); err != nil {
		return nil, err
	}

	assigneeID, err := optionalID(input.AssigneeID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid assignee id", shared.ErrValidation)
	}

	if err := t.Update(input.Title, input.Notes, task.Status(input.Status), input.DueAt, assigneeID); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.events.Record(ctx, t.PropertyID(), &userID, event.ActionTaskUpdated, "task", idPtr(id), map[string]any{
		"status": input.Status,
	})

	return t, nil
}

// Delete removes a task. Requires edit permission on the owning property.
func (s *TaskService) Delete(ctx context.Context, taskID string, userID shared.ID) error {
	id, err := shared.IDFromString(taskID)
	if err != nil {
		return fmt.Errorf("%w: invalid id format", shared.ErrValidation)
	}

	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.access.RequireEdit(ctx, t.PropertyID(), userID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Record(ctx, t.PropertyID(), &userID, event.ActionTaskDeleted, "task", idPtr(id), nil)

	return nil
}

// List returns a property's tasks. Requires view permission.
func (s *TaskService) List(ctx context.Context, propertyID string, userID shared.ID) ([]*task.Task, error) {
	propID, err := shared.IDFromString(propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid property id", shared.ErrValidation)
	}

	if err := s.access.RequireView(ctx, propID, userID); err != nil {
		return nil, err
	}

	return s.tasks.ListByProperty(ctx, propID)
}

func optionalID(s string) (*shared.ID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := shared.IDFromString(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
