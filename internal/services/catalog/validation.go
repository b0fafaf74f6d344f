package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"catering-platform/internal/models"
)

// CreateItemRequest is the body of POST /api/menu-items
type CreateItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Dietary     []string `json:"dietary"`
}

// UpdateItemRequest is the body of PATCH /api/menu-items/{id}. Absent fields
// are left unchanged.
type UpdateItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	Image       *string   `json:"image"`
	Dietary     TagsField `json:"dietary"`
}

// TagsField remembers whether the field was present, so an explicit null
// clears the tags while an absent field leaves them alone.
type TagsField struct {
	Set  bool
	Tags []string
}

func (f *TagsField) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Tags = nil
		return nil
	}
	return json.Unmarshal(data, &f.Tags)
}

// Validate checks the request and returns the item it describes
func (req *CreateItemRequest) Validate() (*models.MenuItem, error) {
	if err := validateRequired("name", req.Name); err != nil {
		return nil, err
	}
	if err := validateRequired("description", req.Description); err != nil {
		return nil, err
	}
	price, err := validatePrice(req.Price)
	if err != nil {
		return nil, err
	}
	if err := validateRequired("image", req.Image); err != nil {
		return nil, err
	}

	return &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Image:       req.Image,
		Dietary:     req.Dietary,
	}, nil
}

// Validate applies the create rules to every supplied field
func (req *UpdateItemRequest) Validate() (models.MenuItemPatch, error) {
	patch := models.MenuItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Dietary.Set {
		tags := req.Dietary.Tags
		patch.Dietary = &tags
	}

	if req.Name != nil {
		if err := validateRequired("name", *req.Name); err != nil {
			return patch, err
		}
	}
	if req.Description != nil {
		if err := validateRequired("description", *req.Description); err != nil {
			return patch, err
		}
	}
	if req.Image != nil {
		if err := validateRequired("image", *req.Image); err != nil {
			return patch, err
		}
	}
	if req.Price != nil {
		price, err := validatePrice(*req.Price)
		if err != nil {
			return patch, err
		}
		patch.Price = &price
	}

	if patch == (models.MenuItemPatch{}) {
		return patch, models.NewValidationError("body", "at least one field must be supplied")
	}
	return patch, nil
}

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return models.NewValidationError(field, field+" is required")
	}
	return nil
}

func validatePrice(raw string) (models.Money, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Money{}, models.NewValidationError("price", "price is required")
	}
	price, err := models.ParseMoney(raw)
	if err != nil {
		return models.Money{}, models.NewValidationError("price", "price must be a decimal number")
	}
	if !price.IsPositive() {
		return models.Money{}, models.NewValidationError("price", "price must be greater than 0")
	}
	if price.ExceedsMax() {
		return models.Money{}, models.NewValidationError("price", "price must not exceed "+models.MaxAmount.String())
	}
	return price, nil
}
