package service

import (
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// CreateCustomerInput represents a request to create a customer
type CreateCustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// CreateCustomerResult carries the created customer or the validation
// errors that prevented creation. Validation failures are data, not
// protocol-level errors.
type CreateCustomerResult struct {
	Customer *models.Customer `json:"customer"`
	Message  string           `json:"message,omitempty"`
	Errors   []string         `json:"errors"`
}

// BulkCreateCustomersResult carries the customers that were created plus
// row-level errors for the ones that were not. Partial success is the
// expected outcome, not a failure mode.
type BulkCreateCustomersResult struct {
	Customers []*models.Customer `json:"customers"`
	Errors    []string           `json:"errors"`
}

// CreateProductInput represents a request to create a product.
// Price arrives as a string so it can be validated as an exact decimal.
type CreateProductInput struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock *int   `json:"stock,omitempty"`
}

// CreateProductResult carries the created product or validation errors
type CreateProductResult struct {
	Product *models.Product `json:"product"`
	Errors  []string        `json:"errors"`
}

// CreateOrderInput represents a request to create an order.
// IDs arrive as strings, matching the external API surface.
type CreateOrderInput struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

// CreateOrderResult carries the created order or validation errors
type CreateOrderResult struct {
	Order  *models.Order `json:"order"`
	Errors []string      `json:"errors"`
}

// ListCustomersParams bundles filter, ordering and pagination for customers
type ListCustomersParams struct {
	Filter  models.CustomerFilter
	OrderBy []string
	Page    models.PageArgs
}

// ListProductsParams bundles filter, ordering and pagination for products
type ListProductsParams struct {
	Filter  models.ProductFilter
	OrderBy []string
	Page    models.PageArgs
}

// ListOrdersParams bundles filter, ordering and pagination for orders
type ListOrdersParams struct {
	Filter  models.OrderFilter
	OrderBy []string
	Page    models.PageArgs
}
