// Package task defines transaction tasks attached to a property.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/propertypassport/api/pkg/domain/shared"
)

// Status is a task's lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string { return string(s) }

// Task is one unit of work on a property transaction.
type Task struct {
	id         shared.ID
	propertyID shared.ID
	title      string
	notes      string
	status     Status
	dueAt      *time.Time
	assigneeID *shared.ID
	createdBy  shared.ID
	createdAt  time.Time
	updatedAt  time.Time
}

// New creates a new Task in the open state.
func New(propertyID shared.ID, title, notes string, dueAt *time.Time, assigneeID *shared.ID, createdBy shared.ID) (*Task, error) {
	if propertyID.IsZero() {
		return nil, fmt.Errorf("%w: propertyID is required", shared.ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if createdBy.IsZero() {
		return nil, fmt.Errorf("%w: createdBy is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Task{
		id:         shared.NewID(),
		propertyID: propertyID,
		title:      title,
		notes:      notes,
		status:     StatusOpen,
		dueAt:      dueAt,
		assigneeID: assigneeID,
		createdBy:  createdBy,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstitute recreates a Task from persistence.
func Reconstitute(
	id, propertyID shared.ID,
	title, notes string,
	status Status,
	dueAt *time.Time,
	assigneeID *shared.ID,
	createdBy shared.ID,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		id:         id,
		propertyID: propertyID,
		title:      title,
		notes:      notes,
		status:     status,
		dueAt:      dueAt,
		assigneeID: assigneeID,
		createdBy:  createdBy,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the task ID.
func (t *Task) ID() shared.ID { return t.id }

// PropertyID returns the owning property's ID.
func (t *Task) PropertyID() shared.ID { return t.propertyID }

// Title returns the task title.
func (t *Task) Title() string { return t.title }

// Notes returns free-form notes.
func (t *Task) Notes() string { return t.notes }

// Status returns the lifecycle state.
func (t *Task) Status() Status { return t.status }

// DueAt returns the due time, nil if none.
func (t *Task) DueAt() *time.Time { return t.dueAt }

// AssigneeID returns the assignee's user ID, nil if unassigned.
func (t *Task) AssigneeID() *shared.ID { return t.assigneeID }

// CreatedBy returns the creating user's ID.
func (t *Task) CreatedBy() shared.ID { return t.createdBy }

// CreatedAt returns the creation time.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last update time.
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

// Update replaces the mutable fields.
func (t *Task) Update(title, notes string, status Status, dueAt *time.Time, assigneeID *shared.ID) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", shared.ErrValidation, status)
	}
	t.title = title
	t.notes = notes
	t.status = status
	t.dueAt = dueAt
	t.assigneeID = assigneeID
	t.updatedAt = time.Now().UTC()
	return nil
}

// Repository defines persistence operations for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id shared.ID) (*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id shared.ID) error
	ListByProperty(ctx context.Context, propertyID shared.ID) ([]*Task, error)
}
