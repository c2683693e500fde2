package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// stringParam returns a pointer to the query value, or nil when absent.
// Absent filter keys are ignored, never treated as "match nothing".
func stringParam(query url.Values, key string) *string {
	if !query.Has(key) {
		return nil
	}
	value := query.Get(key)
	return &value
}

// timeParam parses a query value as RFC 3339, falling back to a plain date
func timeParam(query url.Values, key string) (*time.Time, error) {
	if !query.Has(key) {
		return nil, nil
	}
	raw := query.Get(key)

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return &t, nil
}

// decimalParam parses a query value as an exact decimal
func decimalParam(query url.Values, key string) (*decimal.Decimal, error) {
	if !query.Has(key) {
		return nil, nil
	}
	raw := query.Get(key)

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return &d, nil
}

// intParam parses a query value as an integer
func intParam(query url.Values, key string) (*int, error) {
	if !query.Has(key) {
		return nil, nil
	}
	raw := query.Get(key)

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return &n, nil
}

// int64Param parses a query value as a 64-bit integer
func int64Param(query url.Values, key string) (*int64, error) {
	if !query.Has(key) {
		return nil, nil
	}
	raw := query.Get(key)

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %s", key, raw)
	}
	return &n, nil
}

// orderByParam splits the order_by query value into a field list
func orderByParam(query url.Values) []string {
	raw := query.Get("order_by")
	if raw == "" {
		return nil
	}

	fields := []string{}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

// pageParams extracts cursor pagination arguments
func pageParams(query url.Values) models.PageArgs {
	first, _ := strconv.Atoi(query.Get("first"))

	return models.PageArgs{
		First:        first,
		After:        query.Get("after"),
		IncludeTotal: query.Get("with_total") == "true",
	}
}
