package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// DefaultConfirmationTemplate is the message sent when an order is confirmed
const DefaultConfirmationTemplate = "Hi {name}, your order #{order_id} totalling {total_amount} placed on {order_date} has been received."

// TemplateService renders order confirmation messages
type TemplateService interface {
	Render(template string, customer *models.Customer, order *models.Order) (string, error)
	ValidateTemplate(template string) error
	ExtractPlaceholders(template string) []string
}

type templateService struct {
	placeholderPattern *regexp.Regexp
}

// NewTemplateService creates a new template service
func NewTemplateService() TemplateService {
	return &templateService{
		placeholderPattern: regexp.MustCompile(`\{([a-z_]+)\}`),
	}
}

// Render replaces placeholders in template with customer and order data.
// Missing fields are replaced with empty strings.
func (s *templateService) Render(template string, customer *models.Customer, order *models.Order) (string, error) {
	if customer == nil {
		return "", models.ErrInvalidInput("customer cannot be nil")
	}
	if order == nil {
		return "", models.ErrInvalidInput("order cannot be nil")
	}

	phone := ""
	if customer.Phone != nil {
		phone = *customer.Phone
	}

	fieldMap := map[string]string{
		"name":         customer.Name,
		"email":        customer.Email,
		"phone":        phone,
		"order_id":     strconv.FormatInt(order.ID, 10),
		"total_amount": order.TotalAmount.String(),
		"order_date":   order.OrderDate.Format(time.RFC3339),
	}

	result := s.placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		fieldName := strings.Trim(match, "{}")

		if value, exists := fieldMap[fieldName]; exists {
			return value
		}

		// Unknown placeholder - return empty string
		return ""
	})

	return result, nil
}

// ValidateTemplate checks if template syntax is valid
func (s *templateService) ValidateTemplate(template string) error {
	if template == "" {
		return models.ErrInvalidInput("template cannot be empty")
	}

	placeholders := s.ExtractPlaceholders(template)

	validPlaceholders := map[string]bool{
		"name":         true,
		"email":        true,
		"phone":        true,
		"order_id":     true,
		"total_amount": true,
		"order_date":   true,
	}

	var invalidPlaceholders []string
	for _, placeholder := range placeholders {
		if !validPlaceholders[placeholder] {
			invalidPlaceholders = append(invalidPlaceholders, placeholder)
		}
	}

	if len(invalidPlaceholders) > 0 {
		return models.ErrInvalidInput(
			fmt.Sprintf("invalid placeholders: %s. Valid placeholders are: name, email, phone, order_id, total_amount, order_date",
				strings.Join(invalidPlaceholders, ", ")),
		)
	}

	return nil
}

// ExtractPlaceholders returns all placeholders found in template
func (s *templateService) ExtractPlaceholders(template string) []string {
	matches := s.placeholderPattern.FindAllStringSubmatch(template, -1)
	placeholders := make([]string, 0, len(matches))

	for _, match := range matches {
		if len(match) > 1 {
			placeholders = append(placeholders, match[1])
		}
	}

	return placeholders
}
