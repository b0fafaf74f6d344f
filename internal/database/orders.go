package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

// CreateOrder inserts the order and its initial status log entry in one
// transaction.
func (db *DB) CreateOrder(ctx context.Context, order *models.Order) error {
	lines, err := models.EncodeLines(order.Items)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return models.WrapStorage("create order", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.NewString()
	if _, err := tx.Exec(ctx, InsertOrderSQL,
		id, order.MenuID, order.CustomerName, lines, order.Total.String(), order.Date, string(order.Status)); err != nil {
		return models.WrapStorage("create order", err)
	}
	if _, err := tx.Exec(ctx, InsertOrderStatusLogSQL, id, nil, string(order.Status)); err != nil {
		return models.WrapStorage("create order", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.WrapStorage("create order", err)
	}
	order.ID = id
	return nil
}

func (db *DB) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := scanOrder(db.QueryRow(ctx, GetOrderSQL, id))
	if err != nil {
		return nil, models.WrapStorage("get order", err)
	}
	return order, nil
}

func (db *DB) ListOrders(ctx context.Context) ([]models.Order, error) {
	return db.queryOrders(ctx, "list orders", ListOrdersSQL)
}

func (db *DB) ListOrdersByMenu(ctx context.Context, menuID string) ([]models.Order, error) {
	return db.queryOrders(ctx, "list orders by menu", ListOrdersByMenuSQL, menuID)
}

func (db *DB) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, check store.TransitionCheck) (*models.Order, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, models.WrapStorage("update order status", err)
	}
	defer tx.Rollback(ctx)

	var old string
	if err := tx.QueryRow(ctx, LockOrderStatusSQL, id).Scan(&old); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, models.WrapStorage("update order status", err)
	}
	if check != nil {
		if err := check(models.OrderStatus(old)); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, UpdateOrderStatusSQL, id, string(status)); err != nil {
		return nil, models.WrapStorage("update order status", err)
	}
	if _, err := tx.Exec(ctx, InsertOrderStatusLogSQL, id, old, string(status)); err != nil {
		return nil, models.WrapStorage("update order status", err)
	}

	order, err := scanOrder(tx.QueryRow(ctx, GetOrderSQL, id))
	if err != nil {
		return nil, models.WrapStorage("update order status", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, models.WrapStorage("update order status", err)
	}
	return order, nil
}

func (db *DB) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	var exists bool
	if err := db.QueryRow(ctx, OrderExistsSQL, id).Scan(&exists); err != nil {
		return nil, models.WrapStorage("order history", err)
	}
	if !exists {
		return nil, models.ErrNotFound
	}

	rows, err := db.Query(ctx, GetOrderStatusHistorySQL, id)
	if err != nil {
		return nil, models.WrapStorage("order history", err)
	}
	defer rows.Close()

	history := []models.StatusChange{}
	for rows.Next() {
		var (
			entry                models.StatusChange
			oldStatus, newStatus string
		)
		if err := rows.Scan(&entry.OrderID, &oldStatus, &newStatus, &entry.ChangedAt); err != nil {
			return nil, models.WrapStorage("order history", err)
		}
		entry.OldStatus = models.OrderStatus(oldStatus)
		entry.NewStatus = models.OrderStatus(newStatus)
		history = append(history, entry)
	}
	return history, models.WrapStorage("order history", rows.Err())
}

func (db *DB) queryOrders(ctx context.Context, op, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, models.WrapStorage(op, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, models.WrapStorage(op, err)
		}
		orders = append(orders, *order)
	}
	return orders, models.WrapStorage(op, rows.Err())
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order        models.Order
		lines, total string
		status       string
	)
	err := row.Scan(&order.ID, &order.MenuID, &order.CustomerName, &lines, &total, &order.Date, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if order.Items, err = models.DecodeLines(lines); err != nil {
		return nil, err
	}
	if order.Total, err = models.ParseMoney(total); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatus(status)
	return &order, nil
}
