package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catering-platform/internal/models"
)

func (db *DB) CreateMenu(ctx context.Context, menu *models.Menu) error {
	id := uuid.NewString()
	if err := db.Exec(ctx, InsertMenuSQL, id, menu.Date, menu.ItemIDs, menu.MaxOrders); err != nil {
		return models.WrapStorage("create menu", err)
	}
	menu.ID = id
	return nil
}

func (db *DB) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	menu, err := scanMenu(db.QueryRow(ctx, GetMenuSQL, id))
	if err != nil {
		return nil, models.WrapStorage("get menu", err)
	}
	return menu, nil
}

func (db *DB) GetMenuByDate(ctx context.Context, from, to time.Time) (*models.Menu, error) {
	menu, err := scanMenu(db.QueryRow(ctx, GetMenusBetweenSQL+" LIMIT 1", from, to))
	if err != nil {
		return nil, models.WrapStorage("get menu by date", err)
	}
	return menu, nil
}

func (db *DB) ListMenusBetween(ctx context.Context, from, to time.Time) ([]models.Menu, error) {
	return db.queryMenus(ctx, "list menus between", GetMenusBetweenSQL, from, to)
}

func (db *DB) ListMenus(ctx context.Context) ([]models.Menu, error) {
	return db.queryMenus(ctx, "list menus", ListMenusSQL)
}

func (db *DB) DeleteMenu(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, DeleteMenuSQL, id)
	if err != nil {
		return false, models.WrapStorage("delete menu", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (db *DB) queryMenus(ctx context.Context, op, sql string, args ...interface{}) ([]models.Menu, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, models.WrapStorage(op, err)
	}
	defer rows.Close()

	menus := []models.Menu{}
	for rows.Next() {
		menu, err := scanMenu(rows)
		if err != nil {
			return nil, models.WrapStorage(op, err)
		}
		menus = append(menus, *menu)
	}
	return menus, models.WrapStorage(op, rows.Err())
}

func scanMenu(row pgx.Row) (*models.Menu, error) {
	var menu models.Menu
	if err := row.Scan(&menu.ID, &menu.Date, &menu.ItemIDs, &menu.MaxOrders); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &menu, nil
}
