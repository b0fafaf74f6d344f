// Package memory is an in-process Store used for tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

type Store struct {
	mu sync.RWMutex

	items     map[string]models.MenuItem
	itemOrder []string

	menus     map[string]models.Menu
	menuOrder []string

	orders     map[string]models.Order
	orderOrder []string
	history    map[string][]models.StatusChange

	now func() time.Time
}

func New() *Store {
	return &Store{
		items:   make(map[string]models.MenuItem),
		menus:   make(map[string]models.Menu),
		orders:  make(map[string]models.Order),
		history: make(map[string][]models.StatusChange),
		now:     time.Now,
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Menu items

func (s *Store) CreateItem(ctx context.Context, item *models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.NewString()
	s.items[item.ID] = cloneItem(*item)
	s.itemOrder = append(s.itemOrder, item.ID)
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := cloneItem(item)
	return &out, nil
}

func (s *Store) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.MenuItem, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		items = append(items, cloneItem(s.items[id]))
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch models.MenuItemPatch) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	updated := cloneItem(patch.Apply(item))
	s.items[id] = updated
	out := cloneItem(updated)
	return &out, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	s.itemOrder = removeID(s.itemOrder, id)
	return true, nil
}

// Menus

func (s *Store) CreateMenu(ctx context.Context, menu *models.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	menu.ID = uuid.NewString()
	s.menus[menu.ID] = cloneMenu(*menu)
	s.menuOrder = append(s.menuOrder, menu.ID)
	return nil
}

func (s *Store) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	menu, ok := s.menus[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := cloneMenu(menu)
	return &out, nil
}

func (s *Store) GetMenuByDate(ctx context.Context, from, to time.Time) (*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.menuOrder {
		menu := s.menus[id]
		if inRange(menu.Date, from, to) {
			out := cloneMenu(menu)
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) ListMenusBetween(ctx context.Context, from, to time.Time) ([]models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	menus := []models.Menu{}
	for _, id := range s.menuOrder {
		if menu := s.menus[id]; inRange(menu.Date, from, to) {
			menus = append(menus, cloneMenu(menu))
		}
	}
	return menus, nil
}

func (s *Store) ListMenus(ctx context.Context) ([]models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	menus := make([]models.Menu, 0, len(s.menuOrder))
	for _, id := range s.menuOrder {
		menus = append(menus, cloneMenu(s.menus[id]))
	}
	return menus, nil
}

func (s *Store) DeleteMenu(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.menus[id]; !ok {
		return false, nil
	}
	delete(s.menus, id)
	s.menuOrder = removeID(s.menuOrder, id)
	return true, nil
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.NewString()
	s.orders[order.ID] = cloneOrder(*order)
	s.orderOrder = append(s.orderOrder, order.ID)
	s.history[order.ID] = []models.StatusChange{{
		OrderID:   order.ID,
		NewStatus: order.Status,
		ChangedAt: s.now().UTC(),
	}}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := cloneOrder(order)
	return &out, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.Order, 0, len(s.orderOrder))
	for _, id := range s.orderOrder {
		orders = append(orders, cloneOrder(s.orders[id]))
	}
	return orders, nil
}

func (s *Store) ListOrdersByMenu(ctx context.Context, menuID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.Order{}
	for _, id := range s.orderOrder {
		if order := s.orders[id]; order.MenuID == menuID {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, check store.TransitionCheck) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	old := order.Status
	if check != nil {
		if err := check(old); err != nil {
			return nil, err
		}
	}
	order.Status = status
	s.orders[id] = order
	s.history[id] = append(s.history[id], models.StatusChange{
		OrderID:   id,
		OldStatus: old,
		NewStatus: status,
		ChangedAt: s.now().UTC(),
	})
	out := cloneOrder(order)
	return &out, nil
}

func (s *Store) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.orders[id]; !ok {
		return nil, models.ErrNotFound
	}
	history := make([]models.StatusChange, len(s.history[id]))
	copy(history, s.history[id])
	return history, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

func cloneItem(item models.MenuItem) models.MenuItem {
	if item.Dietary != nil {
		item.Dietary = append([]string{}, item.Dietary...)
	}
	return item
}

func cloneMenu(menu models.Menu) models.Menu {
	menu.ItemIDs = append([]string{}, menu.ItemIDs...)
	return menu
}

func cloneOrder(order models.Order) models.Order {
	order.Items = append([]models.OrderLine{}, order.Items...)
	return order
}
