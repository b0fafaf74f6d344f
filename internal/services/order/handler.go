package order

import (
	"context"
	"net/http"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/web"
)

// Handler handles HTTP requests for the order ledger
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes mounts the order routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("GET /api/orders/menu/{menuId}", h.ListOrdersByMenu)
	mux.HandleFunc("GET /api/orders/history/{id}", h.OrderHistory)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.UpdateOrderStatus)
}

// CreateOrder handles POST /api/orders requests
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	h.logger.Debug("order_received", "Received order creation request", requestID, map[string]interface{}{
		"content_length": r.ContentLength,
		"remote_addr":    r.RemoteAddr,
	})

	var req CreateOrderRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.RespondError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := h.service.Create(ctx, &req, requestID)
	if err != nil {
		web.RespondError(w, h.logger, "order_creation_failed", err, requestID)
		return
	}

	if err := web.WriteJSON(w, http.StatusCreated, order); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.service.Get(ctx, r.PathValue("id"))
	if err != nil {
		web.RespondError(w, h.logger, "get_order_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.service.List(ctx)
	if err != nil {
		web.RespondError(w, h.logger, "list_orders_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) ListOrdersByMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.service.ListByMenu(ctx, r.PathValue("menuId"))
	if err != nil {
		web.RespondError(w, h.logger, "list_orders_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status requests
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)

	var req UpdateStatusRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.RespondError(w, h.logger, "validation_failed", err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := h.service.UpdateStatus(ctx, r.PathValue("id"), &req, requestID)
	if err != nil {
		web.RespondError(w, h.logger, "status_update_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	history, err := h.service.History(ctx, r.PathValue("id"))
	if err != nil {
		web.RespondError(w, h.logger, "order_history_failed", err, requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, history)
}
