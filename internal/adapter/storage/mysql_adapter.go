package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodcircles/storefront/internal/core/domain"
)

// MySQLAdapter owns order and catalog persistence.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         VARCHAR(36) PRIMARY KEY,
		first_name VARCHAR(128) NOT NULL,
		last_name  VARCHAR(128) NOT NULL,
		email      VARCHAR(255) NOT NULL UNIQUE,
		role       VARCHAR(16)  NOT NULL DEFAULT 'CUSTOMER',
		address    TEXT,
		created_at DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id         VARCHAR(36)  PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		slug       VARCHAR(255) NOT NULL UNIQUE,
		image      TEXT,
		created_at DATETIME     NOT NULL,
		updated_at DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id            VARCHAR(36)  PRIMARY KEY,
		restaurant_id VARCHAR(36)  NOT NULL,
		name          VARCHAR(255) NOT NULL,
		slug          VARCHAR(255) NOT NULL UNIQUE,
		description   TEXT,
		image         TEXT,
		price         DOUBLE       NOT NULL,
		quantity      INT          NOT NULL DEFAULT 0,
		created_at    DATETIME     NOT NULL,
		updated_at    DATETIME     NOT NULL,
		INDEX idx_items_restaurant (restaurant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             VARCHAR(36) PRIMARY KEY,
		user_id        VARCHAR(36) NOT NULL,
		amount         DOUBLE      NOT NULL,
		order_type     VARCHAR(16) NOT NULL,
		payment_method VARCHAR(32) NOT NULL,
		address        TEXT,
		status         VARCHAR(16) NOT NULL,
		created_at     DATETIME    NOT NULL,
		updated_at     DATETIME    NOT NULL,
		INDEX idx_orders_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id VARCHAR(36)  NOT NULL,
		item_id  VARCHAR(36)  NOT NULL,
		name     VARCHAR(255) NOT NULL,
		price    DOUBLE       NOT NULL,
		quantity INT          NOT NULL,
		PRIMARY KEY (order_id, item_id)
	)`,
}

// EnsureSchema creates the tables when they do not exist yet.
func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, amount, order_type, payment_method, address, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.Amount, order.OrderType, order.PaymentMethod,
		order.Address, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, item_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			order.ID, item.ItemID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, amount, order_type, payment_method, address, status, created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[string]int)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Amount, &o.OrderType, &o.PaymentMethod,
			&o.Address, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	itemRows, err := m.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.item_id, oi.name, oi.price, oi.quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return orders, nil
}

func (m *MySQLAdapter) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, slug, image, created_at, updated_at
		FROM restaurants ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	index := make(map[string]int)
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Slug, &r.Image, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		index[r.ID] = len(restaurants)
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}

	itemRows, err := m.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, slug, description, image, price, quantity, created_at, updated_at
		FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item domain.MenuItem
		if err := itemRows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Slug,
			&item.Description, &item.Image, &item.Price, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if i, ok := index[item.RestaurantID]; ok {
			restaurants[i].Items = append(restaurants[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return restaurants, nil
}

// CreateRestaurant inserts a restaurant with all of its items in one
// transaction. Used by the seeder.
func (m *MySQLAdapter) CreateRestaurant(ctx context.Context, restaurant domain.Restaurant) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO restaurants (id, name, slug, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		restaurant.ID, restaurant.Name, restaurant.Slug, restaurant.Image,
		restaurant.CreatedAt, restaurant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}

	for _, item := range restaurant.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO items (id, restaurant_id, name, slug, description, image, price, quantity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, restaurant.ID, item.Name, item.Slug, item.Description,
			item.Image, item.Price, item.Quantity, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}

	return tx.Commit()
}

// CreateUser inserts a user record. Used by the seeder.
func (m *MySQLAdapter) CreateUser(ctx context.Context, user domain.User) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, role, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Role, user.Address, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ResetData wipes all seeded rows; items before restaurants, order items
// before orders.
func (m *MySQLAdapter) ResetData(ctx context.Context) error {
	for _, table := range []string{"order_items", "orders", "items", "restaurants", "users"} {
		if _, err := m.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
