package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// orderSortColumns whitelists order_by fields for orders
var orderSortColumns = map[string]string{
	"id":           "id",
	"total_amount": "total_amount",
	"order_date":   "order_date",
	"created_at":   "created_at",
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, productIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter, orderBy []string, limit, offset int) ([]*models.Order, error)
	Count(ctx context.Context, filter models.OrderFilter) (int64, error)
	UpdateConfirmation(ctx context.Context, id int64, status string, lastError *string) error
	IncrementConfirmationAttempts(ctx context.Context, id int64) error
}

// orderRepository implements OrderRepository using PostgreSQL
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a new order and its product associations in a single
// transaction, so an order never persists without its products.
func (r *orderRepository) Create(ctx context.Context, order *models.Order, productIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Rollback is safe to call even after Commit
	}()

	query := `
		INSERT INTO orders (customer_id, total_amount, order_date, confirmation_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err = tx.QueryRowContext(
		ctx,
		query,
		order.CustomerID,
		order.TotalAmount,
		order.OrderDate,
		models.ConfirmationStatusPending,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_products (order_id, product_id)
		VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, productID := range productIDs {
		if _, err := stmt.ExecContext(ctx, order.ID, productID); err != nil {
			return fmt.Errorf("failed to associate product %d: %w", productID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.ConfirmationStatus = models.ConfirmationStatusPending
	order.ProductIDs = productIDs

	return nil
}

// GetByID retrieves an order by ID, including its product IDs
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT id, customer_id, total_amount, order_date, confirmation_status, confirmation_attempts, confirmation_error, created_at
		FROM orders
		WHERE id = $1`

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.CustomerID,
		&order.TotalAmount,
		&order.OrderDate,
		&order.ConfirmationStatus,
		&order.ConfirmationAttempts,
		&order.ConfirmationError,
		&order.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var productIDs pq.Int64Array
	err = r.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(array_agg(product_id ORDER BY product_id), '{}') FROM order_products WHERE order_id = $1`,
		id,
	).Scan(&productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get order products: %w", err)
	}
	order.ProductIDs = productIDs

	return order, nil
}

// buildOrderWhere composes the WHERE clause from the filter.
// Nil filter fields contribute no condition. Relationship filters match
// through the related customer/product rows.
func buildOrderWhere(filter models.OrderFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.TotalAmountGte != nil {
		where += fmt.Sprintf(" AND total_amount >= $%d", argPos)
		args = append(args, *filter.TotalAmountGte)
		argPos++
	}

	if filter.TotalAmountLte != nil {
		where += fmt.Sprintf(" AND total_amount <= $%d", argPos)
		args = append(args, *filter.TotalAmountLte)
		argPos++
	}

	if filter.OrderDateGte != nil {
		where += fmt.Sprintf(" AND order_date >= $%d", argPos)
		args = append(args, *filter.OrderDateGte)
		argPos++
	}

	if filter.OrderDateLte != nil {
		where += fmt.Sprintf(" AND order_date <= $%d", argPos)
		args = append(args, *filter.OrderDateLte)
		argPos++
	}

	if filter.CustomerName != nil {
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM customers c WHERE c.id = orders.customer_id AND c.name ILIKE $%d)", argPos)
		args = append(args, "%"+*filter.CustomerName+"%")
		argPos++
	}

	if filter.ProductName != nil {
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM order_products op JOIN products p ON p.id = op.product_id WHERE op.order_id = orders.id AND p.name ILIKE $%d)", argPos)
		args = append(args, "%"+*filter.ProductName+"%")
		argPos++
	}

	if filter.ProductID != nil {
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM order_products op WHERE op.order_id = orders.id AND op.product_id = $%d)", argPos)
		args = append(args, *filter.ProductID)
		argPos++
	}

	return where, args
}

// List retrieves one window of filtered, ordered orders
func (r *orderRepository) List(ctx context.Context, filter models.OrderFilter, orderBy []string, limit, offset int) ([]*models.Order, error) {
	where, args := buildOrderWhere(filter)

	orderClause, err := buildOrderBy(orderBy, orderSortColumns)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, customer_id, total_amount, order_date, confirmation_status, confirmation_attempts, confirmation_error, created_at
		FROM orders` + where + orderClause
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.CustomerID,
			&order.TotalAmount,
			&order.OrderDate,
			&order.ConfirmationStatus,
			&order.ConfirmationAttempts,
			&order.ConfirmationError,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *orderRepository) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	where, args := buildOrderWhere(filter)

	var totalCount int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&totalCount)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return totalCount, nil
}

// UpdateConfirmation updates the confirmation status and error of an order
func (r *orderRepository) UpdateConfirmation(ctx context.Context, id int64, status string, lastError *string) error {
	query := `
		UPDATE orders
		SET confirmation_status = $1, confirmation_error = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, lastError, id)
	if err != nil {
		return fmt.Errorf("failed to update order confirmation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}

	return nil
}

// IncrementConfirmationAttempts increments the confirmation attempt count
func (r *orderRepository) IncrementConfirmationAttempts(ctx context.Context, id int64) error {
	query := `
		UPDATE orders
		SET confirmation_attempts = confirmation_attempts + 1
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment confirmation attempts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}

	return nil
}
