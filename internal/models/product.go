package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductFilter holds filtering options for listing products.
// Nil fields are ignored.
type ProductFilter struct {
	NameIContains *string
	PriceGte      *decimal.Decimal
	PriceLte      *decimal.Decimal
	StockGte      *int
	StockLte      *int
}
