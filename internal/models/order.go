package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order confirmation status constants
const (
	ConfirmationStatusPending = "pending"
	ConfirmationStatusSent    = "sent"
	ConfirmationStatusFailed  = "failed"
)

// Order represents a customer order. TotalAmount is a snapshot of the
// referenced product prices at creation time and is never recomputed.
type Order struct {
	ID                   int64           `json:"id"`
	CustomerID           int64           `json:"customer_id"`
	ProductIDs           []int64         `json:"product_ids,omitempty"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	OrderDate            time.Time       `json:"order_date"`
	ConfirmationStatus   string          `json:"confirmation_status"`
	ConfirmationAttempts int             `json:"confirmation_attempts"`
	ConfirmationError    *string         `json:"confirmation_error,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// OrderFilter holds filtering options for listing orders.
// Nil fields are ignored. CustomerName, ProductName and ProductID match
// through the related customer/product records.
type OrderFilter struct {
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	CustomerName   *string
	ProductName    *string
	ProductID      *int64
}

// OrderJob represents a confirmation job to be queued for processing
type OrderJob struct {
	OrderID int64 `json:"order_id"`
}

// IsValidConfirmationStatus checks if the confirmation status is valid
func IsValidConfirmationStatus(status string) bool {
	switch status {
	case ConfirmationStatusPending, ConfirmationStatusSent, ConfirmationStatusFailed:
		return true
	default:
		return false
	}
}

// CanRetryConfirmation checks if a confirmation send can be retried
func (o *Order) CanRetryConfirmation(maxRetries int) bool {
	return o.ConfirmationStatus == ConfirmationStatusFailed && o.ConfirmationAttempts < maxRetries
}
