// Package order implements the order ledger: order placement against a menu,
// status tracking and status history.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

// Options carries the configurable ordering rules
type Options struct {
	// EnforceCapacity rejects orders once a menu has MaxOrders orders
	EnforceCapacity bool
	// StrictTransitions allows only pending→confirmed→completed
	StrictTransitions bool
	// VerifyTotal rejects totals that differ from the sum of the lines
	VerifyTotal bool
	Location    *time.Location
}

type Service struct {
	orders    store.OrderStore
	menus     store.MenuStore
	publisher messaging.EventPublisher
	logger    *logger.Logger
	opts      Options
}

func NewService(orders store.OrderStore, menus store.MenuStore, publisher messaging.EventPublisher, log *logger.Logger, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		orders:    orders,
		menus:     menus,
		publisher: publisher,
		logger:    log,
		opts:      opts,
	}
}

// Create validates req and records a pending order. Nothing is written when
// validation fails.
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest, requestID string) (*models.Order, error) {
	order, err := req.Validate(s.opts.Location, s.opts.VerifyTotal)
	if err != nil {
		return nil, fmt.Errorf("validate order: %w", err)
	}

	if s.opts.EnforceCapacity {
		if err := s.checkCapacity(ctx, order.MenuID); err != nil {
			return nil, err
		}
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info("order_created", "Order created", requestID, map[string]interface{}{
		"order_id":      order.ID,
		"menu_id":       order.MenuID,
		"customer_name": order.CustomerName,
		"line_count":    len(order.Items),
		"total":         order.Total.String(),
	})

	if err := s.publisher.PublishEvent(ctx, models.NewOrderCreatedEvent(order)); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event", requestID, err,
			map[string]interface{}{"order_id": order.ID})
	}
	return order, nil
}

// checkCapacity is a check-then-insert guard; concurrent orders may overshoot
func (s *Service) checkCapacity(ctx context.Context, menuID string) error {
	menu, err := s.menus.GetMenu(ctx, menuID)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewValidationError("menuId", fmt.Sprintf("menu %s does not exist", menuID))
	}
	if err != nil {
		return fmt.Errorf("load menu %s: %w", menuID, err)
	}

	existing, err := s.orders.ListOrdersByMenu(ctx, menuID)
	if err != nil {
		return fmt.Errorf("count orders for menu %s: %w", menuID, err)
	}
	if len(existing) >= menu.MaxOrders {
		return fmt.Errorf("menu %s has reached its limit of %d orders: %w", menuID, menu.MaxOrders, models.ErrConflict)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListByMenu returns the orders placed against menuID; unknown menus yield
// an empty list.
func (s *Service) ListByMenu(ctx context.Context, menuID string) ([]models.Order, error) {
	orders, err := s.orders.ListOrdersByMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("list orders for menu %s: %w", menuID, err)
	}
	return orders, nil
}

// UpdateStatus moves an order to the requested status and records the change
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest, requestID string) (*models.Order, error) {
	status, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate status: %w", err)
	}

	// evaluated by the store under the same lock as the write
	var previous models.OrderStatus
	check := func(current models.OrderStatus) error {
		previous = current
		if !models.CanTransition(current, status, s.opts.StrictTransitions) {
			return fmt.Errorf("cannot move from %s to %s: %w", current, status, models.ErrConflict)
		}
		return nil
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, id, status, check)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	s.logger.Info("order_status_updated", "Order status updated", requestID, map[string]interface{}{
		"order_id":   id,
		"old_status": previous,
		"new_status": updated.Status,
	})

	if err := s.publisher.PublishEvent(ctx, models.NewStatusChangedEvent(updated, previous)); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish status event", requestID, err,
			map[string]interface{}{"order_id": id})
	}
	return updated, nil
}

// History returns the status changes of an order, oldest first
func (s *Service) History(ctx context.Context, id string) ([]models.StatusChange, error) {
	history, err := s.orders.OrderHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s history: %w", id, err)
	}
	return history, nil
}
