package store

import (
	"database/sql"
	"fmt"

	"canvasclub/models"
)

const orderColumns = `id, user_id, status, total_amount, stripe_payment_id, printify_order_id,
	tracking_number, tracking_url,
	shipping_first_name, shipping_last_name, shipping_address1, shipping_address2,
	shipping_city, shipping_state, shipping_zip, shipping_country, shipping_phone,
	created_at`

func scanOrderRow(scan func(dest ...interface{}) error) (*models.Order, error) {
	var o models.Order
	err := scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.StripePaymentID, &o.PrintifyOrderID,
		&o.TrackingNumber, &o.TrackingURL,
		&o.ShippingAddress.FirstName, &o.ShippingAddress.LastName,
		&o.ShippingAddress.Address1, &o.ShippingAddress.Address2,
		&o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Zip, &o.ShippingAddress.Country, &o.ShippingAddress.Phone,
		&o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

func (s *Store) CreateOrder(userID string, totalAmount float64, stripePaymentID string, addr models.ShippingAddress) (*models.Order, error) {
	row := s.db.QueryRow(`
		INSERT INTO orders
			(user_id, status, total_amount, stripe_payment_id,
			 shipping_first_name, shipping_last_name, shipping_address1, shipping_address2,
			 shipping_city, shipping_state, shipping_zip, shipping_country, shipping_phone)
		VALUES ($1, 'pending', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+orderColumns,
		userID, totalAmount, stripePaymentID,
		addr.FirstName, addr.LastName, addr.Address1, addr.Address2,
		addr.City, addr.State, addr.Zip, addr.Country, addr.Phone)
	return scanOrderRow(row.Scan)
}

func (s *Store) CreateOrderItems(orderID string, items []models.OrderItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, variant_id, title, image_url, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			orderID, it.ProductID, it.VariantID, it.Title, it.ImageURL, it.Quantity, it.Price); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) SetOrderFulfillment(orderID, printifyOrderID, status string) error {
	_, err := s.db.Exec(`
		UPDATE orders SET printify_order_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3`,
		printifyOrderID, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update fulfillment: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(id string) (*models.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrderRow(row.Scan)
	if err != nil || order == nil {
		return order, err
	}

	items, err := s.orderItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *Store) ListUserOrders(userID string, page, limit int) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrderRow(rows.Scan)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	for i := range orders {
		items, err := s.orderItems(orders[i].ID)
		if err != nil {
			continue
		}
		orders[i].Items = items
	}

	return orders, total, nil
}

// UnfulfilledOrders lists paid orders that never reached the fulfillment
// provider, for the admin remediation view.
func (s *Store) UnfulfilledOrders() ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT ` + orderColumns + ` FROM orders
		WHERE status = 'pending' AND stripe_payment_id <> '' AND printify_order_id = ''
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unfulfilled orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrderRow(rows.Scan)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	for i := range orders {
		items, err := s.orderItems(orders[i].ID)
		if err != nil {
			continue
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (s *Store) orderItems(orderID string) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, variant_id, title, image_url, quantity, price, created_at
		FROM order_items WHERE order_id = $1
		ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID,
			&it.Title, &it.ImageURL, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *Store) CountOrders() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (s *Store) CountOrdersByStatus(status string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (s *Store) CompletedRevenue() (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT SUM(total_amount) FROM orders WHERE status = 'completed'`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total.Float64, nil
}

func (s *Store) RecentOrders(limit int) ([]models.Order, error) {
	rows, err := s.db.Query(
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrderRow(rows.Scan)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}
