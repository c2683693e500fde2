package models

import (
	"regexp"
	"time"
)

// phonePattern accepts an optional leading +, then a digit followed by
// 6-20 characters drawn from digits and hyphens.
var phonePattern = regexp.MustCompile(`^\+?\d[\d\-]{6,20}$`)

// Customer represents a customer in the system
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerFilter holds filtering options for listing customers.
// Nil fields are ignored, never treated as "match nothing".
type CustomerFilter struct {
	NameIContains   *string
	EmailIContains  *string
	CreatedAtGte    *time.Time
	CreatedAtLte    *time.Time
	PhoneStartsWith *string
}

// IsValidPhone checks a phone number against the accepted pattern
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
