package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/validation"
)

// TaskHandler handles the /api/tasks endpoints. Every route expects the auth
// middleware to have stored the caller in the request context.
type TaskHandler struct {
	tasks  service.TaskService
	errors *ErrorResponder
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks service.TaskService, errs *ErrorResponder, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		panic("tasks cannot be nil") // ALLOW-PANIC
	}
	if errs == nil {
		errs = NewErrorResponder(false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		errors: errs,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	q, err := validation.ValidateTaskQuery(r.URL.Query())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	page, err := h.tasks.List(r.Context(), user.ID, q)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := ownerAndPathID(w, r, h.errors)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), owner, id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	body, err := shared.ReadBody(w, r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	in, err := validation.ValidateTaskCreate(body)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, in)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{Task: task})
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := ownerAndPathID(w, r, h.errors)
	if !ok {
		return
	}

	body, err := shared.ReadBody(w, r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	patch, err := validation.ValidateTaskUpdate(body)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), owner, id, patch)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task})
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := ownerAndPathID(w, r, h.errors)
	if !ok {
		return
	}

	if _, err := h.tasks.Delete(r.Context(), owner, id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgTaskDeleted})
}

// Stats handles GET /api/tasks/stats/summary.
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	stats, err := h.tasks.Stats(r.Context(), user.ID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
