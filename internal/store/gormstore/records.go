package gormstore

import (
	"time"

	"catering-platform/internal/models"
)

type itemRecord struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)"`
	Name        string       `gorm:"not null"`
	Description string       `gorm:"not null"`
	Price       models.Money `gorm:"type:decimal(10,2);not null"`
	Image       string       `gorm:"not null"`
	Dietary     []string     `gorm:"serializer:json;type:text"`
	CreatedAt   int64        `gorm:"autoCreateTime:nano;index"`
}

func (itemRecord) TableName() string { return "menu_items" }

func (r itemRecord) toModel() models.MenuItem {
	return models.MenuItem{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Dietary:     r.Dietary,
	}
}

func itemFromModel(item models.MenuItem) itemRecord {
	return itemRecord{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Image:       item.Image,
		Dietary:     item.Dietary,
	}
}

type menuRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Date      time.Time `gorm:"not null;index"`
	ItemIDs   []string  `gorm:"serializer:json;type:text;not null"`
	MaxOrders int       `gorm:"not null"`
	CreatedAt int64     `gorm:"autoCreateTime:nano;index"`
}

func (menuRecord) TableName() string { return "menus" }

func (r menuRecord) toModel() models.Menu {
	ids := r.ItemIDs
	if ids == nil {
		ids = []string{}
	}
	return models.Menu{ID: r.ID, Date: r.Date, ItemIDs: ids, MaxOrders: r.MaxOrders}
}

type orderRecord struct {
	ID           string             `gorm:"primaryKey;type:varchar(36)"`
	MenuID       string             `gorm:"type:varchar(36);not null;index"`
	CustomerName string             `gorm:"not null"`
	Items        []models.OrderLine `gorm:"serializer:json;type:text;not null"`
	Total        models.Money       `gorm:"type:decimal(10,2);not null"`
	Date         time.Time          `gorm:"not null"`
	Status       string             `gorm:"type:varchar(20);not null;default:pending"`
	CreatedAt    int64              `gorm:"autoCreateTime:nano;index"`
}

func (orderRecord) TableName() string { return "orders" }

func (r orderRecord) toModel() models.Order {
	lines := r.Items
	if lines == nil {
		lines = []models.OrderLine{}
	}
	return models.Order{
		ID:           r.ID,
		MenuID:       r.MenuID,
		CustomerName: r.CustomerName,
		Items:        lines,
		Total:        r.Total,
		Date:         r.Date,
		Status:       models.OrderStatus(r.Status),
	}
}

type statusLogRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OrderID   string    `gorm:"type:varchar(36);not null;index"`
	OldStatus string    `gorm:"type:varchar(20)"`
	NewStatus string    `gorm:"type:varchar(20);not null"`
	ChangedAt time.Time `gorm:"not null"`
}

func (statusLogRecord) TableName() string { return "order_status_log" }

func (r statusLogRecord) toModel() models.StatusChange {
	return models.StatusChange{
		OrderID:   r.OrderID,
		OldStatus: models.OrderStatus(r.OldStatus),
		NewStatus: models.OrderStatus(r.NewStatus),
		ChangedAt: r.ChangedAt,
	}
}
