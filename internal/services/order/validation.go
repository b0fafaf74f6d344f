package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"catering-platform/internal/models"
)

// OrderLines accepts either a JSON array of lines or a string holding one,
// which is how the ordering form submits them.
type OrderLines []models.OrderLine

func (l *OrderLines) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		lines, err := models.DecodeLines(encoded)
		if err != nil {
			return err
		}
		*l = lines
		return nil
	}
	var lines []models.OrderLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*l = lines
	return nil
}

// CreateOrderRequest is the body of POST /api/orders
type CreateOrderRequest struct {
	MenuID       string        `json:"menuId"`
	CustomerName string        `json:"customerName"`
	Items        OrderLines    `json:"items"`
	Total        *models.Money `json:"total"`
	Date         string        `json:"date"`
}

// UpdateStatusRequest is the body of PATCH /api/orders/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks the request and returns a pending order. Zero-quantity
// lines are dropped. With verifyTotal the submitted total must equal the sum
// of the lines, otherwise it is passed through unchanged.
func (req *CreateOrderRequest) Validate(loc *time.Location, verifyTotal bool) (*models.Order, error) {
	if strings.TrimSpace(req.MenuID) == "" {
		return nil, models.NewValidationError("menuId", "menu id is required")
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, models.NewValidationError("customerName", "customer name is required")
	}

	if strings.TrimSpace(req.Date) == "" {
		return nil, models.NewValidationError("date", "date is required")
	}
	date, err := models.ParseDate(req.Date, loc)
	if err != nil {
		return nil, models.NewValidationError("date", "date must be an ISO-8601 date")
	}

	lines, err := validateLines(req.Items)
	if err != nil {
		return nil, err
	}

	if req.Total == nil {
		return nil, models.NewValidationError("total", "total is required")
	}
	if req.Total.IsNegative() {
		return nil, models.NewValidationError("total", "total must not be negative")
	}
	if req.Total.ExceedsMax() {
		return nil, models.NewValidationError("total", "total must not exceed "+models.MaxAmount.String())
	}
	if verifyTotal {
		if sum := models.SumLines(lines); !sum.Equal(*req.Total) {
			return nil, models.NewValidationError("total",
				fmt.Sprintf("total %s does not match the sum of the items %s", req.Total, sum))
		}
	}

	return &models.Order{
		MenuID:       strings.TrimSpace(req.MenuID),
		CustomerName: name,
		Items:        lines,
		Total:        *req.Total,
		Date:         date,
		Status:       models.StatusPending,
	}, nil
}

func validateLines(items []models.OrderLine) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0, len(items))
	for i, line := range items {
		if line.Quantity < 0 {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "quantity must not be negative")
		}
		if line.Quantity == 0 {
			continue
		}
		if strings.TrimSpace(line.ItemID) == "" {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].itemId", i), "item id is required")
		}
		if strings.TrimSpace(line.Name) == "" {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].name", i), "item name is required")
		}
		if !line.Price.IsPositive() {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].price", i), "price is required and must be greater than 0")
		}
		if line.Price.ExceedsMax() {
			return nil, models.NewValidationError(fmt.Sprintf("items[%d].price", i), "price must not exceed "+models.MaxAmount.String())
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, models.NewValidationError("items", "at least one item with quantity greater than 0 is required")
	}
	return lines, nil
}

// Validate checks the requested status against the known states
func (req *UpdateStatusRequest) Validate() (models.OrderStatus, error) {
	if strings.TrimSpace(req.Status) == "" {
		return "", models.NewValidationError("status", "status is required")
	}
	status := models.OrderStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return "", models.NewValidationError("status",
			fmt.Sprintf("status must be one of %s, %s, %s", models.StatusPending, models.StatusConfirmed, models.StatusCompleted))
	}
	return status, nil
}
