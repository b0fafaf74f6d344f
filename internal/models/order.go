package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCompleted OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusCompleted: 2,
}

// Valid reports whether s is one of the declared statuses
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Without strict, any valid status is reachable from any other.
// Strict allows only a single forward step or staying in place.
func CanTransition(from, to OrderStatus, strict bool) bool {
	if !to.Valid() {
		return false
	}
	if !strict {
		return true
	}
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank := orderStatusRank[to]
	return toRank == fromRank || toRank == fromRank+1
}

// OrderLine is the frozen snapshot of one ordered catalog item
type OrderLine struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    Money  `json:"price"`
}

// Subtotal is price × quantity
func (l OrderLine) Subtotal() Money {
	return l.Price.Times(l.Quantity)
}

// Order is a customer's request against a menu publication
type Order struct {
	ID           string      `json:"id"`
	MenuID       string      `json:"menuId"`
	CustomerName string      `json:"customerName"`
	Items        []OrderLine `json:"items"`
	Total        Money       `json:"total"`
	Date         time.Time   `json:"date"`
	Status       OrderStatus `json:"status"`
}

// SumLines returns Σ(price × quantity) over lines
func SumLines(lines []OrderLine) Money {
	var total Money
	for _, line := range lines {
		total = total.Plus(line.Subtotal())
	}
	return total
}

// EncodeLines serializes order lines for the persistence boundary
func EncodeLines(lines []OrderLine) (string, error) {
	if lines == nil {
		lines = []OrderLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode order lines: %w", err)
	}
	return string(data), nil
}

// DecodeLines is the inverse of EncodeLines
func DecodeLines(s string) ([]OrderLine, error) {
	var lines []OrderLine
	if err := json.Unmarshal([]byte(s), &lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	return lines, nil
}

// StatusChange is an entry in an order's status history
type StatusChange struct {
	OrderID   string      `json:"orderId"`
	OldStatus OrderStatus `json:"oldStatus,omitempty"`
	NewStatus OrderStatus `json:"newStatus"`
	ChangedAt time.Time   `json:"changedAt"`
}

// DashboardStats summarizes the ledger for the caterer dashboard
type DashboardStats struct {
	TotalOrders    int                 `json:"totalOrders"`
	TotalRevenue   Money               `json:"totalRevenue"`
	TotalItems     int                 `json:"totalItems"`
	UpcomingMenus  int                 `json:"upcomingMenus"`
	OrdersByStatus map[OrderStatus]int `json:"ordersByStatus"`
}
