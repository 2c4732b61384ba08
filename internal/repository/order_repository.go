package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wahret-zmen/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// Edit locks the order row, hands the order to fn and stores the result
	// in the same transaction. When fn reports remove the order is deleted
	// instead and the returned order is nil.
	Edit(ctx context.Context, id string, fn func(*domain.Order) (remove bool, err error)) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, name, email, phone, address, products, total_price, payment_method, created_at, updated_at`

// Create inserts a new order, assigning an ID and timestamps.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	address, err := json.Marshal(order.Address)
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	products, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("failed to encode order products: %w", err)
	}

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.Name,
		order.Email,
		order.Phone,
		string(address),
		string(products),
		decimal.NewFromFloat(order.TotalPrice).Round(2),
		order.PaymentMethod,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// FindByEmail lists the orders placed with email, newest first. The match is
// case-insensitive.
func (r *orderRepository) FindByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE LOWER(email) = $1 ORDER BY created_at DESC, id`
	return r.listOrders(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

// List returns every order, newest first.
func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id`
	return r.listOrders(ctx, query)
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) Edit(ctx context.Context, id string, fn func(*domain.Order) (bool, error)) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	order, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	remove, err := fn(order)
	if err != nil {
		return nil, err
	}

	if remove {
		if err := deleteOrder(ctx, tx, id); err != nil {
			return nil, err
		}
		order = nil
	} else if err := updateProducts(ctx, tx, order); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order edit: %w", err)
	}
	return order, nil
}

// updateProducts stores the lines and total of an edited order.
func updateProducts(ctx context.Context, db execer, order *domain.Order) error {
	products, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("failed to encode order products: %w", err)
	}
	order.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE orders
		SET products = $2, total_price = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := db.ExecContext(ctx, query, order.ID, string(products), decimal.NewFromFloat(order.TotalPrice).Round(2), order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return deleteOrder(ctx, r.db, id)
}

func deleteOrder(ctx context.Context, db execer, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order    domain.Order
		address  []byte
		products []byte
		total    decimal.Decimal
	)
	err := row.Scan(
		&order.ID,
		&order.Name,
		&order.Email,
		&order.Phone,
		&address,
		&products,
		&total,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(address, &order.Address); err != nil {
		return nil, fmt.Errorf("failed to decode address of order %s: %w", order.ID, err)
	}
	if err := json.Unmarshal(products, &order.Products); err != nil {
		return nil, fmt.Errorf("failed to decode products of order %s: %w", order.ID, err)
	}
	order.TotalPrice = total.InexactFloat64()

	return &order, nil
}
