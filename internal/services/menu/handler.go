package menu

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/web"
)

// Handler handles HTTP requests for menu publications
type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes mounts the menu routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/menus", h.ListMenus)
	mux.HandleFunc("POST /api/menus", h.CreateMenu)
	mux.HandleFunc("GET /api/menus/{id}", h.GetMenu)
	mux.HandleFunc("DELETE /api/menus/{id}", h.DeleteMenu)
	mux.HandleFunc("GET /api/menus/by-date/{date}", h.GetMenuByDate)
	mux.HandleFunc("GET /api/menus/calendar/{month}", h.Calendar)
	mux.HandleFunc("GET /api/menus/availability/{id}", h.Availability)
}

func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	menus, err := h.service.List(ctx)
	if err != nil {
		web.RespondError(w, h.logger, "list_menus_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, menus)
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	menu, err := h.service.Get(ctx, r.PathValue("id"))
	if err != nil {
		web.RespondError(w, h.logger, "get_menu_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, menu)
}

func (h *Handler) GetMenuByDate(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	menu, err := h.service.GetByDate(ctx, r.PathValue("date"))
	if err != nil {
		web.RespondError(w, h.logger, "get_menu_by_date_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, menu)
}

func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req CreateMenuRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.RespondError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	menu, err := h.service.Create(ctx, &req, requestID)
	if err != nil {
		web.RespondError(w, h.logger, "create_menu_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusCreated, menu)
}

func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := r.PathValue("id")
	deleted, err := h.service.Delete(ctx, id, requestID)
	if err != nil {
		web.RespondError(w, h.logger, "delete_menu_failed", err, requestID)
		return
	}
	if !deleted {
		web.RespondError(w, h.logger, "delete_menu_failed", fmt.Errorf("menu %s: %w", id, models.ErrNotFound), requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	availability, err := h.service.Availability(ctx, r.PathValue("id"))
	if err != nil {
		web.RespondError(w, h.logger, "menu_availability_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, availability)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	days, err := h.service.Calendar(ctx, r.PathValue("month"))
	if err != nil {
		web.RespondError(w, h.logger, "menu_calendar_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, days)
}
