package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/propertypassport/api/internal/app"
	"github.com/propertypassport/api/pkg/apierror"
	"github.com/propertypassport/api/pkg/domain/task"
	"github.com/propertypassport/api/pkg/logger"
	"github.com/propertypassport/api/pkg/validator"
)

// TaskHandler handles property task HTTP requests.
type TaskHandler struct {
	service   *app.TaskService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(svc *app.TaskService, v *validator.Validator, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID         string     `json:"id"`
	PropertyID string     `json:"property_id"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes,omitempty"`
	Status     string     `json:"status"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toTaskResponse(t *task.Task) TaskResponse {
	resp := TaskResponse{
		ID:         t.ID().String(),
		PropertyID: t.PropertyID().String(),
		Title:      t.Title(),
		Notes:      t.Notes(),
		Status:     t.Status().String(),
		DueAt:      t.DueAt(),
		CreatedBy:  t.CreatedBy().String(),
		CreatedAt:  t.CreatedAt(),
		UpdatedAt:  t.UpdatedAt(),
	}
	if assignee := t.AssigneeID(); assignee != nil {
		resp.AssigneeID = assignee.String()
	}
	return resp
}

// Create handles POST /api/v1/properties/{id}/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.CreateTaskInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	t, err := h.service.Create(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Task", err)
		return
	}

	respondJSON(w, http.StatusCreated, toTaskResponse(t))
}

// Update handles PUT /api/v1/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var input app.UpdateTaskInput
	if err := decodeJSON(r, &input); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	if err := h.validator.Struct(input); err != nil {
		handleValidationError(w, err)
		return
	}

	t, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input, userID)
	if err != nil {
		handleServiceError(w, h.logger, "Task", err)
		return
	}

	respondJSON(w, http.StatusOK, toTaskResponse(t))
}

// Delete handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.logger, "Task", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/properties/{id}/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUserID(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, h.logger, "Task", err)
		return
	}

	data := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		data[i] = toTaskResponse(t)
	}

	respondJSON(w, http.StatusOK, ListResponse[TaskResponse]{
		Data:  data,
		Total: int64(len(data)),
		Page:  1,
	})
}
