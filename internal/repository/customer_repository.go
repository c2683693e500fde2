package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// customerSortColumns whitelists order_by fields for customers
var customerSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"phone":      "phone",
	"created_at": "created_at",
}

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, filter models.CustomerFilter, orderBy []string, limit, offset int) ([]*models.Customer, error)
	Count(ctx context.Context, filter models.CustomerFilter) (int64, error)
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts a new customer. The unique index on email is the
// authoritative duplicate guard; a violation surfaces as ErrDuplicateEmail
// so callers can report it the same way as their pre-check.
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.Phone,
	).Scan(&customer.ID, &customer.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return &models.AppError{
			Code:    "CONFLICT",
			Message: fmt.Sprintf("customer with email %s already exists", customer.Email),
			Err:     models.ErrDuplicateEmail,
		}
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM customers
		WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByEmail retrieves a customer by email
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `
		SELECT id, name, email, phone, created_at
		FROM customers
		WHERE email = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with email %s not found", email))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}

	return customer, nil
}

// buildCustomerWhere composes the WHERE clause from the filter.
// Nil filter fields contribute no condition.
func buildCustomerWhere(filter models.CustomerFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.NameIContains != nil {
		where += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+*filter.NameIContains+"%")
		argPos++
	}

	if filter.EmailIContains != nil {
		where += fmt.Sprintf(" AND email ILIKE $%d", argPos)
		args = append(args, "%"+*filter.EmailIContains+"%")
		argPos++
	}

	if filter.CreatedAtGte != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argPos)
		args = append(args, *filter.CreatedAtGte)
		argPos++
	}

	if filter.CreatedAtLte != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", argPos)
		args = append(args, *filter.CreatedAtLte)
		argPos++
	}

	if filter.PhoneStartsWith != nil {
		where += fmt.Sprintf(" AND phone ILIKE $%d", argPos)
		args = append(args, *filter.PhoneStartsWith+"%")
		argPos++
	}

	return where, args
}

// List retrieves one window of filtered, ordered customers
func (r *customerRepository) List(ctx context.Context, filter models.CustomerFilter, orderBy []string, limit, offset int) ([]*models.Customer, error) {
	where, args := buildCustomerWhere(filter)

	orderClause, err := buildOrderBy(orderBy, customerSortColumns)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, email, phone, created_at
		FROM customers` + where + orderClause
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.Phone,
			&customer.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// Count returns the number of customers matching the filter
func (r *customerRepository) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	where, args := buildCustomerWhere(filter)

	var totalCount int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&totalCount)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return totalCount, nil
}
