// Package gormstore implements store.Store on GORM, over PostgreSQL or SQLite.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Store struct {
	db     *gorm.DB
	logger *logger.Logger
}

// Open connects with the given dialect and migrates the schema
func Open(dialect, dsn string, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	s := &Store{db: db, logger: log}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the catering tables
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&itemRecord{},
		&menuRecord{},
		&orderRecord{},
		&statusLogRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	s.logger.Info("migration_applied", "GORM schema migrated", "startup",
		map[string]interface{}{"dialect": s.db.Dialector.Name()})
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Menu items

func (s *Store) CreateItem(ctx context.Context, item *models.MenuItem) error {
	rec := itemFromModel(*item)
	rec.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.WrapStorage("create item", err)
	}
	item.ID = rec.ID
	return nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var rec itemRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, wrap("get item", err)
	}
	item := rec.toModel()
	return &item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	var recs []itemRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, wrap("list items", err)
	}
	items := make([]models.MenuItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, rec.toModel())
	}
	return items, nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch models.MenuItemPatch) (*models.MenuItem, error) {
	var updated models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec itemRecord
		if err := s.forUpdate(tx).Where("id = ?", id).Take(&rec).Error; err != nil {
			return err
		}
		updated = patch.Apply(rec.toModel())

		next := itemFromModel(updated)
		next.CreatedAt = rec.CreatedAt
		return tx.Save(&next).Error
	})
	if err != nil {
		return nil, wrap("update item", err)
	}
	return &updated, nil
}

func (s *Store) DeleteItem(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&itemRecord{})
	if res.Error != nil {
		return false, wrap("delete item", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Menus

func (s *Store) CreateMenu(ctx context.Context, menu *models.Menu) error {
	rec := menuRecord{
		ID:        uuid.NewString(),
		Date:      menu.Date.UTC(),
		ItemIDs:   menu.ItemIDs,
		MaxOrders: menu.MaxOrders,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.WrapStorage("create menu", err)
	}
	menu.ID = rec.ID
	return nil
}

func (s *Store) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	var rec menuRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, wrap("get menu", err)
	}
	menu := rec.toModel()
	return &menu, nil
}

func (s *Store) GetMenuByDate(ctx context.Context, from, to time.Time) (*models.Menu, error) {
	var rec menuRecord
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Order("created_at, id").
		Take(&rec).Error
	if err != nil {
		return nil, wrap("get menu by date", err)
	}
	menu := rec.toModel()
	return &menu, nil
}

func (s *Store) ListMenusBetween(ctx context.Context, from, to time.Time) ([]models.Menu, error) {
	var recs []menuRecord
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, wrap("list menus between", err)
	}
	return menusFromRecords(recs), nil
}

func (s *Store) ListMenus(ctx context.Context) ([]models.Menu, error) {
	var recs []menuRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, wrap("list menus", err)
	}
	return menusFromRecords(recs), nil
}

func (s *Store) DeleteMenu(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&menuRecord{})
	if res.Error != nil {
		return false, wrap("delete menu", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	rec := orderRecord{
		ID:           uuid.NewString(),
		MenuID:       order.MenuID,
		CustomerName: order.CustomerName,
		Items:        order.Items,
		Total:        order.Total,
		Date:         order.Date.UTC(),
		Status:       string(order.Status),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return tx.Create(&statusLogRecord{
			OrderID:   rec.ID,
			NewStatus: rec.Status,
			ChangedAt: time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return models.WrapStorage("create order", err)
	}
	order.ID = rec.ID
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var rec orderRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		return nil, wrap("get order", err)
	}
	order := rec.toModel()
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var recs []orderRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, wrap("list orders", err)
	}
	return ordersFromRecords(recs), nil
}

func (s *Store) ListOrdersByMenu(ctx context.Context, menuID string) ([]models.Order, error) {
	var recs []orderRecord
	err := s.db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, wrap("list orders by menu", err)
	}
	return ordersFromRecords(recs), nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, check store.TransitionCheck) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec orderRecord
		if err := s.forUpdate(tx).Where("id = ?", id).Take(&rec).Error; err != nil {
			return err
		}
		old := rec.Status
		if check != nil {
			if err := check(models.OrderStatus(old)); err != nil {
				return err
			}
		}

		if err := tx.Model(&rec).Update("status", string(status)).Error; err != nil {
			return err
		}
		if err := tx.Create(&statusLogRecord{
			OrderID:   id,
			OldStatus: old,
			NewStatus: string(status),
			ChangedAt: time.Now().UTC(),
		}).Error; err != nil {
			return err
		}

		rec.Status = string(status)
		order = rec.toModel()
		return nil
	})
	if err != nil {
		return nil, wrap("update order status", err)
	}
	return &order, nil
}

func (s *Store) OrderHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, wrap("order history", err)
	}
	if count == 0 {
		return nil, models.ErrNotFound
	}

	var recs []statusLogRecord
	if err := s.db.WithContext(ctx).Where("order_id = ?", id).Order("id").Find(&recs).Error; err != nil {
		return nil, wrap("order history", err)
	}
	history := make([]models.StatusChange, 0, len(recs))
	for _, rec := range recs {
		history = append(history, rec.toModel())
	}
	return history, nil
}

// forUpdate adds a row lock where the dialect supports one
func (s *Store) forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == DialectPostgres {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return models.WrapStorage(op, err)
}

func menusFromRecords(recs []menuRecord) []models.Menu {
	menus := make([]models.Menu, 0, len(recs))
	for _, rec := range recs {
		menus = append(menus, rec.toModel())
	}
	return menus
}

func ordersFromRecords(recs []orderRecord) []models.Order {
	orders := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, rec.toModel())
	}
	return orders
}
