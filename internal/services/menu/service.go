// Package menu manages menu publications: catalog items offered on a date
// with an order capacity.
package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

// Options carries the configurable publication rules
type Options struct {
	// UniquePerDate rejects a second menu on an occupied day
	UniquePerDate    bool
	DefaultMaxOrders int
	Location         *time.Location
}

// CalendarDay marks a date that carries a publication
type CalendarDay struct {
	Date   string `json:"date"`
	MenuID string `json:"menuId"`
}

type Service struct {
	menus     store.MenuStore
	orders    store.OrderStore
	publisher messaging.EventPublisher
	logger    *logger.Logger
	opts      Options
}

func NewService(menus store.MenuStore, orders store.OrderStore, publisher messaging.EventPublisher, log *logger.Logger, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DefaultMaxOrders <= 0 {
		opts.DefaultMaxOrders = models.DefaultMaxOrders
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		menus:     menus,
		orders:    orders,
		publisher: publisher,
		logger:    log,
		opts:      opts,
	}
}

// Create validates req, stores the menu and announces it
func (s *Service) Create(ctx context.Context, req *CreateMenuRequest, requestID string) (*models.Menu, error) {
	menu, err := req.Validate(s.opts.Location, s.opts.DefaultMaxOrders)
	if err != nil {
		return nil, fmt.Errorf("validate menu: %w", err)
	}

	if s.opts.UniquePerDate {
		from, to := models.DayBounds(menu.Date, s.opts.Location)
		existing, err := s.menus.GetMenuByDate(ctx, from, to)
		switch {
		case err == nil:
			return nil, fmt.Errorf("menu %s already published for %s: %w",
				existing.ID, from.Format(models.DateLayout), models.ErrConflict)
		case !errors.Is(err, models.ErrNotFound):
			return nil, fmt.Errorf("check menu date: %w", err)
		}
	}

	if err := s.menus.CreateMenu(ctx, menu); err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}

	s.logger.Info("menu_published", "Menu published", requestID, map[string]interface{}{
		"menu_id":    menu.ID,
		"date":       menu.Date.Format(models.DateLayout),
		"item_count": len(menu.ItemIDs),
		"max_orders": menu.MaxOrders,
	})

	if err := s.publisher.PublishEvent(ctx, models.NewMenuPublishedEvent(menu)); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish menu event", requestID, err,
			map[string]interface{}{"menu_id": menu.ID})
	}
	return menu, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Menu, error) {
	menu, err := s.menus.GetMenu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("menu %s: %w", id, err)
	}
	return menu, nil
}

// GetByDate returns the first menu on the calendar day of date
func (s *Service) GetByDate(ctx context.Context, date string) (*models.Menu, error) {
	day, err := models.ParseDate(date, s.opts.Location)
	if err != nil {
		return nil, models.NewValidationError("date", "date must be formatted as YYYY-MM-DD")
	}

	from, to := models.DayBounds(day, s.opts.Location)
	menu, err := s.menus.GetMenuByDate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("menu for %s: %w", from.Format(models.DateLayout), err)
	}
	return menu, nil
}

func (s *Service) List(ctx context.Context) ([]models.Menu, error) {
	menus, err := s.menus.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return menus, nil
}

// Delete removes a menu and reports whether it existed. Orders placed
// against it are kept.
func (s *Service) Delete(ctx context.Context, id, requestID string) (bool, error) {
	deleted, err := s.menus.DeleteMenu(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete menu %s: %w", id, err)
	}
	if deleted {
		s.logger.Info("menu_deleted", "Menu deleted", requestID, map[string]interface{}{"menu_id": id})
	}
	return deleted, nil
}

// Availability reports how many orders the menu can still take
func (s *Service) Availability(ctx context.Context, id string) (*models.MenuAvailability, error) {
	menu, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrdersByMenu(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count orders for menu %s: %w", id, err)
	}
	return models.NewMenuAvailability(menu, len(orders)), nil
}

// Calendar lists the days of month (YYYY-MM) that carry a menu, in date
// order. When a day has several menus the first published one is reported.
func (s *Service) Calendar(ctx context.Context, month string) ([]CalendarDay, error) {
	start, err := parseMonth(month, s.opts.Location)
	if err != nil {
		return nil, err
	}

	menus, err := s.menus.ListMenusBetween(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("list menus for %s: %w", month, err)
	}

	seen := make(map[string]bool)
	days := []CalendarDay{}
	for _, m := range menus {
		date := m.Date.In(s.opts.Location).Format(models.DateLayout)
		if seen[date] {
			continue
		}
		seen[date] = true
		days = append(days, CalendarDay{Date: date, MenuID: m.ID})
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}
