// Package dashboard aggregates ledger figures for the caterer dashboard.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
)

// farFuture bounds the upcoming-menu range
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type Service struct {
	items  ItemLister
	menus  MenuLister
	orders OrderLister
	logger *logger.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewService(items ItemLister, menus MenuLister, orders OrderLister, log *logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		items:  items,
		menus:  menus,
		orders: orders,
		logger: log,
		loc:    loc,
		now:    time.Now,
	}
}

// Stats counts orders, revenue, catalog items and menus dated today or later
func (s *Service) Stats(ctx context.Context, requestID string) (*models.DashboardStats, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	upcoming, err := s.menus.ListMenusBetween(ctx, models.StartOfDay(s.now(), s.loc), farFuture)
	if err != nil {
		return nil, fmt.Errorf("list upcoming menus: %w", err)
	}

	stats := &models.DashboardStats{
		TotalOrders:   len(orders),
		TotalItems:    len(items),
		UpcomingMenus: len(upcoming),
		OrdersByStatus: map[models.OrderStatus]int{
			models.StatusPending:   0,
			models.StatusConfirmed: 0,
			models.StatusCompleted: 0,
		},
	}
	for _, order := range orders {
		stats.TotalRevenue = stats.TotalRevenue.Plus(order.Total)
		stats.OrdersByStatus[order.Status]++
	}

	s.logger.Debug("dashboard_stats", "Computed dashboard stats", requestID, map[string]interface{}{
		"total_orders":   stats.TotalOrders,
		"total_revenue":  stats.TotalRevenue.String(),
		"upcoming_menus": stats.UpcomingMenus,
	})
	return stats, nil
}
