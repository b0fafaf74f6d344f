// Package store declares the record-store capabilities the catering domain
// is written against. Backends live in sibling packages.
package store

import (
	"context"
	"time"

	"catering-platform/internal/models"
)

// ItemStore persists catalog items. Create assigns the id.
type ItemStore interface {
	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListItems(ctx context.Context) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, id string, patch models.MenuItemPatch) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
}

// MenuStore persists menu publications.
type MenuStore interface {
	CreateMenu(ctx context.Context, menu *models.Menu) error
	GetMenu(ctx context.Context, id string) (*models.Menu, error)
	// GetMenuByDate returns the first menu dated within [from, to)
	GetMenuByDate(ctx context.Context, from, to time.Time) (*models.Menu, error)
	// ListMenusBetween returns menus dated within [from, to)
	ListMenusBetween(ctx context.Context, from, to time.Time) ([]models.Menu, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
	DeleteMenu(ctx context.Context, id string) (bool, error)
}

// OrderStore persists orders and their status history.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByMenu(ctx context.Context, menuID string) ([]models.Order, error)
	// UpdateOrderStatus replaces the status and records the change. A non-nil
	// check sees the current status under the same lock as the write; its
	// error aborts the update.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, check TransitionCheck) (*models.Order, error)
	OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error)
}

// TransitionCheck vets a status change given the status currently stored
type TransitionCheck func(current models.OrderStatus) error

// Store bundles the three collections of one backend
type Store interface {
	ItemStore
	MenuStore
	OrderStore
	Ping(ctx context.Context) error
	Close() error
}
