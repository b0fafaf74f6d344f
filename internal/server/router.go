// Package server assembles the HTTP API of the catering platform.
package server

import (
	"net/http"
	"time"

	"catering-platform/internal/config"
	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/services/catalog"
	"catering-platform/internal/services/dashboard"
	"catering-platform/internal/services/menu"
	"catering-platform/internal/services/order"
	"catering-platform/internal/store"
	"catering-platform/internal/web"
)

const serviceName = "api-server"

// SetupRoutes wires every service against st and returns the root handler
// with request logging and CORS applied.
func SetupRoutes(st store.Store, publisher messaging.EventPublisher, cfg *config.Config, loc *time.Location, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	catalog.NewHandler(catalog.NewService(st, log), log).RegisterRoutes(mux)

	menus := menu.NewService(st, st, publisher, log, menu.Options{
		UniquePerDate:    cfg.Ordering.UniqueMenuPerDate,
		DefaultMaxOrders: cfg.Ordering.DefaultMaxOrders,
		Location:         loc,
	})
	menu.NewHandler(menus, log).RegisterRoutes(mux)

	orders := order.NewService(st, st, publisher, log, order.Options{
		EnforceCapacity:   cfg.Ordering.EnforceCapacity,
		StrictTransitions: cfg.Ordering.StrictTransitions,
		VerifyTotal:       cfg.Ordering.VerifyTotal,
		Location:          loc,
	})
	order.NewHandler(orders, log).RegisterRoutes(mux)

	dashboard.NewHandler(dashboard.NewService(st, st, st, log, loc), log).RegisterRoutes(mux)

	mux.HandleFunc("GET /health", web.HealthHandler(serviceName, st))

	return web.WithCORS(cfg.Server.AllowedOrigins, web.WithLogging(log, mux))
}
