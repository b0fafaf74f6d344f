package menu

import (
	"fmt"
	"strings"
	"time"

	"catering-platform/internal/models"
)

// CreateMenuRequest is the body of POST /api/menus
type CreateMenuRequest struct {
	Date      string   `json:"date"`
	ItemIDs   []string `json:"itemIds"`
	MaxOrders *int     `json:"maxOrders"`
}

// Validate checks the request and returns the menu it describes. Bare dates
// are read as midnight in loc.
func (req *CreateMenuRequest) Validate(loc *time.Location, defaultMaxOrders int) (*models.Menu, error) {
	if strings.TrimSpace(req.Date) == "" {
		return nil, models.NewValidationError("date", "date is required")
	}
	date, err := models.ParseDate(req.Date, loc)
	if err != nil {
		return nil, models.NewValidationError("date", "date must be an ISO-8601 date")
	}

	if len(req.ItemIDs) == 0 {
		return nil, models.NewValidationError("itemIds", "at least one menu item is required")
	}
	for i, id := range req.ItemIDs {
		if strings.TrimSpace(id) == "" {
			return nil, models.NewValidationError(fmt.Sprintf("itemIds[%d]", i), "item id must not be empty")
		}
	}

	maxOrders := defaultMaxOrders
	if maxOrders <= 0 {
		maxOrders = models.DefaultMaxOrders
	}
	if req.MaxOrders != nil {
		if *req.MaxOrders <= 0 {
			return nil, models.NewValidationError("maxOrders", "max orders must be greater than 0")
		}
		maxOrders = *req.MaxOrders
	}

	return &models.Menu{
		Date:      date,
		ItemIDs:   append([]string{}, req.ItemIDs...),
		MaxOrders: maxOrders,
	}, nil
}

// parseMonth reads a YYYY-MM month and returns its first instant in loc
func parseMonth(month string, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01", strings.TrimSpace(month), loc)
	if err != nil {
		return time.Time{}, models.NewValidationError("month", "month must be formatted as YYYY-MM")
	}
	return start, nil
}
