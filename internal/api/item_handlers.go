// internal/api/item_handlers.go
package api

import (
	"net/http"

	"github.com/AnanyaNagabhushan/taskflow/internal/middleware"
	"github.com/AnanyaNagabhushan/taskflow/internal/service"
)

// ItemHandler exposes checklist items nested under /api/tasks/{id}/items.
type ItemHandler struct {
	items *service.ItemService
}

func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// List handles GET /api/tasks/{id}/items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := itemScope(w, r)
	if !ok {
		return
	}

	items, err := h.items.List(r.Context(), userID, taskID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Create handles POST /api/tasks/{id}/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := itemScope(w, r)
	if !ok {
		return
	}

	var input service.CreateItemInput
	if err := decodeJSON(w, r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	item, err := h.items.Add(r.Context(), userID, taskID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /api/tasks/{id}/items/{itemID}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := itemScope(w, r)
	if !ok {
		return
	}
	itemID, err := uintParam(r, "itemID")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.items.Get(r.Context(), userID, taskID, itemID)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/tasks/{id}/items/{itemID}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := itemScope(w, r)
	if !ok {
		return
	}
	itemID, err := uintParam(r, "itemID")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var input service.UpdateItemInput
	if err := decodeJSON(w, r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	item, err := h.items.Update(r.Context(), userID, taskID, itemID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/tasks/{id}/items/{itemID}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := itemScope(w, r)
	if !ok {
		return
	}
	itemID, err := uintParam(r, "itemID")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.items.Delete(r.Context(), userID, taskID, itemID); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

type bulkItemsRequest struct {
	ItemIDs []uint `json:"item_ids"`
	Action  string `json:"action"`
	Status  string `json:"status"`
}

// BulkUpdate handles PUT /api/tasks/items/bulk. It operates across all of
// the caller's tasks, not a single one.
func (h *ItemHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req bulkItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.items.BulkUpdate(r.Context(), userID, req.ItemIDs, req.Action, req.Status); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "bulk operation successful"})
}

// itemScope pulls the authenticated user and the {id} route param; on
// failure it has already written the error response.
func itemScope(w http.ResponseWriter, r *http.Request) (userID, taskID uint, ok bool) {
	userID, authed := middleware.UserIDFromContext(r.Context())
	if !authed {
		errorJSON(w, http.StatusUnauthorized, "not authenticated")
		return 0, 0, false
	}

	taskID, err := uintParam(r, "id")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid task id")
		return 0, 0, false
	}

	return userID, taskID, true
}
