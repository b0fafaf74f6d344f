// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

// Run exercises a backend. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("items", func(t *testing.T) { testItems(t, newStore(t)) })
	t.Run("menus", func(t *testing.T) { testMenus(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newStore(t)) })
}

func testItems(t *testing.T, s store.Store) {
	ctx := context.Background()

	item := &models.MenuItem{
		Name:        "Salmon",
		Description: "d",
		Price:       models.MustMoney("24.99"),
		Image:       "x",
	}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == "" {
		t.Fatal("CreateItem did not assign an id")
	}

	got, err := s.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Name != "Salmon" || got.Price.String() != "24.99" || got.Image != "x" || got.Description != "d" {
		t.Errorf("GetItem = %+v", got)
	}
	if got.Dietary != nil {
		t.Errorf("dietary = %v, want nil when absent", got.Dietary)
	}

	tagged := &models.MenuItem{
		Name: "Salad", Description: "greens", Price: models.MustMoney("9.50"), Image: "y",
		Dietary: []string{"vegan", "vegan", "gluten-free"},
	}
	if err := s.CreateItem(ctx, tagged); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	got, err = s.GetItem(ctx, tagged.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(got.Dietary) != 3 || got.Dietary[0] != "vegan" || got.Dietary[2] != "gluten-free" {
		t.Errorf("dietary = %v, want duplicates kept in order", got.Dietary)
	}

	items, err := s.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("ListItems returned %d items, want 2", len(items))
	}

	name := "Smoked Salmon"
	price := models.MustMoney("26.00")
	updated, err := s.UpdateItem(ctx, item.ID, models.MenuItemPatch{Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != name || updated.Price.String() != "26.00" || updated.Description != "d" {
		t.Errorf("UpdateItem = %+v", updated)
	}
	if _, err := s.UpdateItem(ctx, "missing", models.MenuItemPatch{Name: &name}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateItem(missing) error = %v, want ErrNotFound", err)
	}

	deleted, err := s.DeleteItem(ctx, item.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteItem = %v, %v; want true, nil", deleted, err)
	}
	if _, err := s.GetItem(ctx, item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetItem after delete error = %v, want ErrNotFound", err)
	}
	deleted, err = s.DeleteItem(ctx, item.ID)
	if err != nil || deleted {
		t.Errorf("second DeleteItem = %v, %v; want false, nil", deleted, err)
	}
}

func testMenus(t *testing.T, s store.Store) {
	ctx := context.Background()
	loc := time.UTC

	menu := &models.Menu{
		Date:      time.Date(2025, 10, 15, 14, 30, 0, 0, loc),
		ItemIDs:   []string{"a", "b"},
		MaxOrders: 10,
	}
	if err := s.CreateMenu(ctx, menu); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	other := &models.Menu{Date: time.Date(2025, 10, 18, 0, 0, 0, 0, loc), ItemIDs: []string{"c"}, MaxOrders: 50}
	if err := s.CreateMenu(ctx, other); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}

	got, err := s.GetMenu(ctx, menu.ID)
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if len(got.ItemIDs) != 2 || got.MaxOrders != 10 || !got.Date.Equal(menu.Date) {
		t.Errorf("GetMenu = %+v", got)
	}

	from, to := models.DayBounds(time.Date(2025, 10, 15, 0, 0, 0, 0, loc), loc)
	byDate, err := s.GetMenuByDate(ctx, from, to)
	if err != nil {
		t.Fatalf("GetMenuByDate: %v", err)
	}
	if byDate.ID != menu.ID {
		t.Errorf("GetMenuByDate returned %s, want %s", byDate.ID, menu.ID)
	}

	from, to = models.DayBounds(time.Date(2025, 10, 16, 0, 0, 0, 0, loc), loc)
	if _, err := s.GetMenuByDate(ctx, from, to); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetMenuByDate(empty day) error = %v, want ErrNotFound", err)
	}

	month, err := s.ListMenusBetween(ctx, time.Date(2025, 10, 1, 0, 0, 0, 0, loc), time.Date(2025, 11, 1, 0, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("ListMenusBetween: %v", err)
	}
	if len(month) != 2 {
		t.Errorf("ListMenusBetween returned %d menus, want 2", len(month))
	}

	all, err := s.ListMenus(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListMenus = %d, %v; want 2, nil", len(all), err)
	}

	deleted, err := s.DeleteMenu(ctx, menu.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteMenu = %v, %v", deleted, err)
	}
	if _, err := s.GetMenu(ctx, menu.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetMenu after delete error = %v, want ErrNotFound", err)
	}
	if deleted, _ := s.DeleteMenu(ctx, menu.ID); deleted {
		t.Error("second DeleteMenu reported true")
	}
}

func testOrders(t *testing.T, s store.Store) {
	ctx := context.Background()

	order := &models.Order{
		MenuID:       "menu-1",
		CustomerName: "Jane",
		Items: []models.OrderLine{
			{ItemID: "salmon", Name: "Salmon", Quantity: 2, Price: models.MustMoney("24.99")},
		},
		Total:  models.MustMoney("49.98"),
		Date:   time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		Status: models.StatusPending,
	}
	if err := s.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.ID == "" {
		t.Fatal("CreateOrder did not assign an id")
	}
	second := &models.Order{
		MenuID: "menu-2", CustomerName: "John", Status: models.StatusPending,
		Items: []models.OrderLine{{ItemID: "x", Name: "X", Quantity: 1, Price: models.MustMoney("1.00")}},
		Total: models.MustMoney("1.00"), Date: time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC),
	}
	if err := s.CreateOrder(ctx, second); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	first, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	again, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if first.Total.String() != "49.98" || first.Status != models.StatusPending || len(first.Items) != 1 {
		t.Errorf("GetOrder = %+v", first)
	}
	if first.Items[0].Name != "Salmon" || first.Items[0].Price.String() != "24.99" {
		t.Errorf("order line = %+v", first.Items[0])
	}
	if first.Total.String() != again.Total.String() || first.Status != again.Status || first.CustomerName != again.CustomerName {
		t.Errorf("repeated reads differ: %+v vs %+v", first, again)
	}

	byMenu, err := s.ListOrdersByMenu(ctx, "menu-1")
	if err != nil || len(byMenu) != 1 || byMenu[0].ID != order.ID {
		t.Errorf("ListOrdersByMenu = %+v, %v", byMenu, err)
	}
	none, err := s.ListOrdersByMenu(ctx, "menu-missing")
	if err != nil || len(none) != 0 {
		t.Errorf("ListOrdersByMenu(missing) = %+v, %v", none, err)
	}
	all, err := s.ListOrders(ctx)
	if err != nil || len(all) != 2 {
		t.Errorf("ListOrders = %d, %v; want 2", len(all), err)
	}

	updated, err := s.UpdateOrderStatus(ctx, order.ID, models.StatusConfirmed, nil)
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if updated.Status != models.StatusConfirmed || updated.Total.String() != "49.98" || updated.CustomerName != "Jane" {
		t.Errorf("UpdateOrderStatus = %+v", updated)
	}
	if _, err := s.UpdateOrderStatus(ctx, "missing", models.StatusConfirmed, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateOrderStatus(missing) error = %v, want ErrNotFound", err)
	}

	history, err := s.OrderHistory(ctx, order.ID)
	if err != nil {
		t.Fatalf("OrderHistory: %v", err)
	}
	if len(history) != 2 || history[0].NewStatus != models.StatusPending ||
		history[1].OldStatus != models.StatusPending || history[1].NewStatus != models.StatusConfirmed {
		t.Errorf("OrderHistory = %+v", history)
	}
	if _, err := s.OrderHistory(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("OrderHistory(missing) error = %v, want ErrNotFound", err)
	}

	testGuardedStatusUpdate(t, s, order.ID)
}

// testGuardedStatusUpdate runs the transition check against the stored status
// and leaves the order untouched when the check fails.
func testGuardedStatusUpdate(t *testing.T, s store.Store, id string) {
	ctx := context.Background()

	var seen models.OrderStatus
	rejectFromConfirmed := func(current models.OrderStatus) error {
		seen = current
		if current == models.StatusConfirmed {
			return fmt.Errorf("cannot leave %s: %w", current, models.ErrConflict)
		}
		return nil
	}

	if _, err := s.UpdateOrderStatus(ctx, id, models.StatusPending, rejectFromConfirmed); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("guarded UpdateOrderStatus error = %v, want ErrConflict", err)
	}
	if seen != models.StatusConfirmed {
		t.Errorf("check saw %q, want the stored status confirmed", seen)
	}

	got, err := s.GetOrder(ctx, id)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Status != models.StatusConfirmed {
		t.Errorf("status after rejected update = %s, want confirmed", got.Status)
	}
	history, err := s.OrderHistory(ctx, id)
	if err != nil || len(history) != 2 {
		t.Errorf("history after rejected update = %d entries, %v; want 2", len(history), err)
	}

	if _, err := s.UpdateOrderStatus(ctx, "missing", models.StatusPending, rejectFromConfirmed); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("guarded UpdateOrderStatus(missing) error = %v, want ErrNotFound", err)
	}
}
