package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/web"
)

// Handler handles HTTP requests for the menu item catalog
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the catalog routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menu-items", h.ListItems)
	mux.HandleFunc("POST /api/menu-items", h.CreateItem)
	mux.HandleFunc("GET /api/menu-items/{id}", h.GetItem)
	mux.HandleFunc("PATCH /api/menu-items/{id}", h.UpdateItem)
	mux.HandleFunc("DELETE /api/menu-items/{id}", h.DeleteItem)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		h.writeError(w, "list_items_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, r.PathValue("id"))
	if err != nil {
		h.writeError(w, "get_item_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req CreateItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, &req, requestID)
	if err != nil {
		h.writeError(w, "create_item_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req UpdateItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, r.PathValue("id"), &req, requestID)
	if err != nil {
		h.writeError(w, "update_item_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.PathValue("id")
	deleted, err := h.service.Delete(ctx, id, requestID)
	if err != nil {
		h.writeError(w, "delete_item_failed", err, requestID)
		return
	}
	if !deleted {
		h.writeError(w, "delete_item_failed", fmt.Errorf("menu item %s: %w", id, models.ErrNotFound), requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, action string, err error, requestID string) {
	web.RespondError(w, h.logger, action, err, requestID)
}
