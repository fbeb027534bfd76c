package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertypassport/api/pkg/domain/shared"
	"github.com/propertypassport/api/pkg/domain/task"
)

// TaskRepository implements task.Repository using PostgreSQL.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, property_id, title, notes, status, due_at, assignee_id, created_by, created_at, updated_at`

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (id, property_id, title, notes, status, due_at, assignee_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID().String(),
		t.PropertyID().String(),
		t.Title(),
		nullString(t.Notes()),
		t.Status().String(),
		nullTime(t.DueAt()),
		nullID(t.AssigneeID()),
		t.CreatedBy().String(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, id shared.ID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id.String()))
}

// Update updates an existing task.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, notes = $3, status = $4, due_at = $5, assignee_id = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		t.ID().String(),
		t.Title(),
		nullString(t.Notes()),
		t.Status().String(),
		nullTime(t.DueAt()),
		nullID(t.AssigneeID()),
		t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}

	return nil
}

// ListByProperty returns all tasks for a property, due date first, then recency.
func (r *TaskRepository) ListByProperty(ctx context.Context, propertyID shared.ID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE property_id = $1 ORDER BY due_at NULLS LAST, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, propertyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := r.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) scanTask(row rowScanner) (*task.Task, error) {
	var (
		idStr         string
		propertyIDStr string
		title         string
		notes         sql.NullString
		status        string
		dueAt         sql.NullTime
		assigneeID    sql.NullString
		createdByStr  string
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := row.Scan(&idStr, &propertyIDStr, &title, &notes, &status, &dueAt, &assigneeID, &createdByStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid task ID: %w", err)
	}
	propertyID, err := shared.IDFromString(propertyIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid property ID: %w", err)
	}
	createdBy, err := shared.IDFromString(createdByStr)
	if err != nil {
		return nil, fmt.Errorf("invalid creator ID: %w", err)
	}

	return task.Reconstitute(
		id,
		propertyID,
		title,
		nullStringValue(notes),
		task.Status(status),
		nullTimeValue(dueAt),
		parseNullID(assigneeID),
		createdBy,
		createdAt.Time,
		updatedAt.Time,
	), nil
}
