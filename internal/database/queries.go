package database

// Menu item queries
const (
	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, price, image, dietary)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`

	selectMenuItemColumns = `SELECT id, name, description, price::text, image, dietary FROM menu_items`

	GetMenuItemSQL = selectMenuItemColumns + ` WHERE id = $1`

	ListMenuItemsSQL = selectMenuItemColumns + ` ORDER BY created_at, id`

	UpdateMenuItemSQL = `
		UPDATE menu_items SET name = $2, description = $3, price = $4::numeric, image = $5, dietary = $6
		WHERE id = $1`

	DeleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

// Menu queries
const (
	InsertMenuSQL = `
		INSERT INTO menus (id, date, item_ids, max_orders)
		VALUES ($1, $2, $3, $4)`

	selectMenuColumns = `SELECT id, date, item_ids, max_orders FROM menus`

	GetMenuSQL = selectMenuColumns + ` WHERE id = $1`

	GetMenusBetweenSQL = selectMenuColumns + ` WHERE date >= $1 AND date < $2 ORDER BY created_at, id`

	ListMenusSQL = selectMenuColumns + ` ORDER BY created_at, id`

	DeleteMenuSQL = `DELETE FROM menus WHERE id = $1`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, menu_id, customer_name, items, total, date, status)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, old_status, new_status)
		VALUES ($1, $2, $3)`

	selectOrderColumns = `SELECT id, menu_id, customer_name, items, total::text, date, status FROM orders`

	GetOrderSQL = selectOrderColumns + ` WHERE id = $1`

	ListOrdersSQL = selectOrderColumns + ` ORDER BY created_at, id`

	ListOrdersByMenuSQL = selectOrderColumns + ` WHERE menu_id = $1 ORDER BY created_at, id`

	LockOrderStatusSQL = `SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	UpdateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	OrderExistsSQL = `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`

	GetOrderStatusHistorySQL = `
		SELECT order_id, COALESCE(old_status, ''), new_status, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`
)
