// Package catalog manages the menu item catalog.
package catalog

import (
	"context"
	"fmt"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/store"
)

type Service struct {
	items  store.ItemStore
	logger *logger.Logger
}

func NewService(items store.ItemStore, log *logger.Logger) *Service {
	return &Service{items: items, logger: log}
}

// Create validates req and stores a new catalog item
func (s *Service) Create(ctx context.Context, req *CreateItemRequest, requestID string) (*models.MenuItem, error) {
	item, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate menu item: %w", err)
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	s.logger.Info("menu_item_created", "Menu item created", requestID, map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
		"price":   item.Price.String(),
	})
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("menu item %s: %w", id, err)
	}
	return item, nil
}

func (s *Service) List(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// Update applies a partial update. Existing order snapshots are unaffected.
func (s *Service) Update(ctx context.Context, id string, req *UpdateItemRequest, requestID string) (*models.MenuItem, error) {
	patch, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate menu item: %w", err)
	}

	item, err := s.items.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("menu item %s: %w", id, err)
	}

	s.logger.Info("menu_item_updated", "Menu item updated", requestID, map[string]interface{}{
		"item_id": id,
	})
	return item, nil
}

// Delete removes an item and reports whether it existed. Menus and orders
// that reference it keep the dangling id.
func (s *Service) Delete(ctx context.Context, id, requestID string) (bool, error) {
	deleted, err := s.items.DeleteItem(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete menu item %s: %w", id, err)
	}
	if deleted {
		s.logger.Info("menu_item_deleted", "Menu item deleted", requestID, map[string]interface{}{
			"item_id": id,
		})
	}
	return deleted, nil
}
