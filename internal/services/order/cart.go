package order

import "catering-platform/internal/models"

// FreezeLines copies the live name and price of each chosen catalog item into
// order lines and returns them with their total. Items with no positive
// quantity are skipped. Later catalog edits do not reach the returned lines.
func FreezeLines(items []models.MenuItem, quantities map[string]int) ([]models.OrderLine, models.Money) {
	lines := []models.OrderLine{}
	for _, item := range items {
		quantity := quantities[item.ID]
		if quantity <= 0 {
			continue
		}
		lines = append(lines, models.OrderLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: quantity,
			Price:    item.Price,
		})
	}
	return lines, models.SumLines(lines)
}
