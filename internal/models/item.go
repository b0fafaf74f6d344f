package models

// MenuItem is a catalog entry describing a dish
type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       Money    `json:"price"`
	Image       string   `json:"image"`
	Dietary     []string `json:"dietary"`
}

// MenuItemPatch carries the fields of a partial item update; nil fields are
// left unchanged.
type MenuItemPatch struct {
	Name        *string
	Description *string
	Price       *Money
	Image       *string
	Dietary     *[]string
}

// Apply returns a copy of item with the patch applied
func (p MenuItemPatch) Apply(item MenuItem) MenuItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Dietary != nil {
		item.Dietary = *p.Dietary
	}
	return item
}
