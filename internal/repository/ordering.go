package repository

import (
	"fmt"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// buildOrderBy translates an order_by field list into an ORDER BY clause.
// Fields prefixed with "-" sort descending. Fields are applied left to right
// and a trailing "id ASC" keeps the ordering total, so cursor pages stay
// stable under a fixed filter+order.
func buildOrderBy(orderBy []string, columns map[string]string) (string, error) {
	clauses := []string{}

	for _, field := range orderBy {
		direction := "ASC"
		name := field
		if strings.HasPrefix(field, "-") {
			direction = "DESC"
			name = field[1:]
		}

		column, ok := columns[name]
		if !ok {
			return "", models.ErrInvalidInput(fmt.Sprintf("invalid order_by field: %s", field))
		}

		clauses = append(clauses, column+" "+direction)
	}

	clauses = append(clauses, "id ASC")

	return " ORDER BY " + strings.Join(clauses, ", "), nil
}
