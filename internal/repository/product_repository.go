package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// productSortColumns whitelists order_by fields for products
var productSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter, orderBy []string, limit, offset int) ([]*models.Product, error)
	Count(ctx context.Context, filter models.ProductFilter) (int64, error)
}

// productRepository implements ProductRepository using PostgreSQL
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, price, stock)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Stock,
	).Scan(&product.ID, &product.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *productRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT id, name, price, stock, created_at
		FROM products
		WHERE id = $1`

	product := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetByIDs retrieves the products whose IDs appear in ids. Missing IDs are
// simply absent from the result; callers compare counts to detect them.
func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	query := `
		SELECT id, name, price, stock, created_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// buildProductWhere composes the WHERE clause from the filter.
// Nil filter fields contribute no condition; range bounds are inclusive.
func buildProductWhere(filter models.ProductFilter) (string, []interface{}) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter.NameIContains != nil {
		where += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+*filter.NameIContains+"%")
		argPos++
	}

	if filter.PriceGte != nil {
		where += fmt.Sprintf(" AND price >= $%d", argPos)
		args = append(args, *filter.PriceGte)
		argPos++
	}

	if filter.PriceLte != nil {
		where += fmt.Sprintf(" AND price <= $%d", argPos)
		args = append(args, *filter.PriceLte)
		argPos++
	}

	if filter.StockGte != nil {
		where += fmt.Sprintf(" AND stock >= $%d", argPos)
		args = append(args, *filter.StockGte)
		argPos++
	}

	if filter.StockLte != nil {
		where += fmt.Sprintf(" AND stock <= $%d", argPos)
		args = append(args, *filter.StockLte)
		argPos++
	}

	return where, args
}

// List retrieves one window of filtered, ordered products
func (r *productRepository) List(ctx context.Context, filter models.ProductFilter, orderBy []string, limit, offset int) ([]*models.Product, error) {
	where, args := buildProductWhere(filter)

	orderClause, err := buildOrderBy(orderBy, productSortColumns)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, price, stock, created_at
		FROM products` + where + orderClause
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		product := &models.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Count returns the number of products matching the filter
func (r *productRepository) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	where, args := buildProductWhere(filter)

	var totalCount int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&totalCount)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return totalCount, nil
}
