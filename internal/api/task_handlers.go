// internal/api/task_handlers.go
package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AnanyaNagabhushan/taskflow/internal/middleware"
	"github.com/AnanyaNagabhushan/taskflow/internal/service"
)

// TaskHandler exposes the task CRUD endpoints. Every handler resolves the
// owner from the authenticated claims; the service layer scopes all queries
// to that owner.
type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type bulkUpdateRequest struct {
	TaskIDs []uint `json:"task_ids"`
	Action  string `json:"action"`
	Status  string `json:"status"`
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var input service.CreateTaskInput
	if err := decodeJSON(w, r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// List handles GET /api/tasks with page/per_page/status/search/sort_by/order.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	q := r.URL.Query()
	params := service.ListTasksParams{
		Page:      intQuery(q.Get("page"), 1),
		PerPage:   intQuery(q.Get("per_page"), 10),
		Status:    q.Get("status"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("order"),
	}

	page, err := h.tasks.List(r.Context(), userID, params)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uintParam(r, "id")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid task id")
		return
	}

	task, err := h.tasks.Get(r.Context(), userID, id)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uintParam(r, "id")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var input service.UpdateTaskInput
	if err := decodeJSON(w, r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	task, err := h.tasks.Update(r.Context(), userID, id, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uintParam(r, "id")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.tasks.Delete(r.Context(), userID, id); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// BulkUpdate handles PUT /api/tasks/bulk.
func (h *TaskHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req bulkUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.tasks.BulkUpdate(r.Context(), userID, req.TaskIDs, req.Action, req.Status); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "bulk operation successful"})
}

// Summary handles GET /api/tasks/summary.
func (h *TaskHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	counts, err := h.tasks.Summary(r.Context(), userID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"summary": counts})
}

func intQuery(value string, defaultValue int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return defaultValue
}

func uintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
