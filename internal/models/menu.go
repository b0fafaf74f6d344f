package models

import "time"

const DefaultMaxOrders = 50

// Menu is a caterer's publication of catalog items on a calendar date
type Menu struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	ItemIDs   []string  `json:"itemIds"`
	MaxOrders int       `json:"maxOrders"`
}

// MenuAvailability reports how much of a menu's order capacity is used
type MenuAvailability struct {
	MenuID     string `json:"menuId"`
	MaxOrders  int    `json:"maxOrders"`
	OrderCount int    `json:"orderCount"`
	Remaining  int    `json:"remaining"`
}

func NewMenuAvailability(menu *Menu, orderCount int) *MenuAvailability {
	remaining := menu.MaxOrders - orderCount
	if remaining < 0 {
		remaining = 0
	}
	return &MenuAvailability{
		MenuID:     menu.ID,
		MaxOrders:  menu.MaxOrders,
		OrderCount: orderCount,
		Remaining:  remaining,
	}
}
