package dashboard

import (
	"context"
	"time"

	"catering-platform/internal/models"
)

type ItemLister interface {
	ListItems(ctx context.Context) ([]models.MenuItem, error)
}

type MenuLister interface {
	ListMenusBetween(ctx context.Context, from, to time.Time) ([]models.Menu, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}
