package dashboard

import (
	"context"
	"net/http"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/web"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard/stats", h.GetStats)
}

// GetStats handles GET /api/dashboard/stats requests
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx, requestID)
	if err != nil {
		web.RespondError(w, h.logger, "dashboard_stats_failed", err, requestID)
		return
	}
	if err := web.WriteJSON(w, http.StatusOK, stats); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}
