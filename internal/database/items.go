package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"catering-platform/internal/models"
)

func (db *DB) CreateItem(ctx context.Context, item *models.MenuItem) error {
	id := uuid.NewString()
	err := db.Exec(ctx, InsertMenuItemSQL,
		id, item.Name, item.Description, item.Price.String(), item.Image, item.Dietary)
	if err != nil {
		return models.WrapStorage("create item", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := scanItem(db.QueryRow(ctx, GetMenuItemSQL, id))
	if err != nil {
		return nil, models.WrapStorage("get item", err)
	}
	return item, nil
}

func (db *DB) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := db.Query(ctx, ListMenuItemsSQL)
	if err != nil {
		return nil, models.WrapStorage("list items", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, models.WrapStorage("list items", err)
		}
		items = append(items, *item)
	}
	return items, models.WrapStorage("list items", rows.Err())
}

func (db *DB) UpdateItem(ctx context.Context, id string, patch models.MenuItemPatch) (*models.MenuItem, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, models.WrapStorage("update item", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanItem(tx.QueryRow(ctx, GetMenuItemSQL+" FOR UPDATE", id))
	if err != nil {
		return nil, models.WrapStorage("update item", err)
	}

	updated := patch.Apply(*current)
	if _, err := tx.Exec(ctx, UpdateMenuItemSQL,
		id, updated.Name, updated.Description, updated.Price.String(), updated.Image, updated.Dietary); err != nil {
		return nil, models.WrapStorage("update item", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, models.WrapStorage("update item", err)
	}
	return &updated, nil
}

func (db *DB) DeleteItem(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, DeleteMenuItemSQL, id)
	if err != nil {
		return false, models.WrapStorage("delete item", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanItem(row pgx.Row) (*models.MenuItem, error) {
	var (
		item  models.MenuItem
		price string
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Image, &item.Dietary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if item.Price, err = models.ParseMoney(price); err != nil {
		return nil, err
	}
	return &item, nil
}
