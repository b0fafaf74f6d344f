package models

import "time"

const (
	EventMenuPublished      = "menu.published"
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is published to the catering events exchange after a successful write
type Event struct {
	Type         string      `json:"type"`
	MenuID       string      `json:"menu_id,omitempty"`
	OrderID      string      `json:"order_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	Total        *Money      `json:"total,omitempty"`
	MenuDate     *time.Time  `json:"menu_date,omitempty"`
	OldStatus    OrderStatus `json:"old_status,omitempty"`
	NewStatus    OrderStatus `json:"new_status,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

func NewMenuPublishedEvent(menu *Menu) *Event {
	date := menu.Date
	return &Event{
		Type:      EventMenuPublished,
		MenuID:    menu.ID,
		MenuDate:  &date,
		Timestamp: time.Now().UTC(),
	}
}

func NewOrderCreatedEvent(order *Order) *Event {
	total := order.Total
	return &Event{
		Type:         EventOrderCreated,
		MenuID:       order.MenuID,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        &total,
		NewStatus:    order.Status,
		Timestamp:    time.Now().UTC(),
	}
}

func NewStatusChangedEvent(order *Order, oldStatus OrderStatus) *Event {
	return &Event{
		Type:         EventOrderStatusChanged,
		MenuID:       order.MenuID,
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		OldStatus:    oldStatus,
		NewStatus:    order.Status,
		Timestamp:    time.Now().UTC(),
	}
}
