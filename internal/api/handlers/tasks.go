package handlers

import (
	"log/slog"
	"net/http"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	planner *planner.Service
	logger  *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(p *planner.Service, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{planner: p, logger: logger}
}

type createTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string        `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string        `json:"description"`
	Completed   *bool          `json:"completed"`
	DueDate     NullableString `json:"due_date"`
}

// List handles GET /tasks/event/{id}.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tasks, err := h.planner.ListTasks(r.Context(), middleware.GetUserID(r.Context()), eventID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "list tasks", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(tasks))
}

// Create handles POST /tasks/event/{id}.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req createTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.planner.CreateTask(r.Context(), middleware.GetUserID(r.Context()), eventID, planner.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "create task", err)
		return
	}
	WriteJSON(w, http.StatusCreated, task)
}

// Update handles PUT /tasks/{id}. An explicit null due_date clears it.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	upd := planner.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			upd.ClearDueDate = true
		} else {
			upd.DueDate = req.DueDate.Value
		}
	}

	task, err := h.planner.UpdateTask(r.Context(), middleware.GetUserID(r.Context()), taskID, upd)
	if err != nil {
		WriteServiceError(w, r, h.logger, "update task", err)
		return
	}
	WriteJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.planner.DeleteTask(r.Context(), middleware.GetUserID(r.Context()), taskID); err != nil {
		WriteServiceError(w, r, h.logger, "delete task", err)
		return
	}
	WriteMessage(w, "task deleted")
}
