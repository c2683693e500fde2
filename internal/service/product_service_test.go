package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// mockProductRepo is an in-memory ProductRepository for testing
type mockProductRepo struct {
	products []*models.Product
}

func (m *mockProductRepo) Create(ctx context.Context, product *models.Product) error {
	product.ID = int64(len(m.products) + 1)
	product.CreatedAt = time.Now()
	m.products = append(m.products, product)
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", id))
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	found := []*models.Product{}
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id {
				found = append(found, p)
				break
			}
		}
	}
	return found, nil
}

func (m *mockProductRepo) matches(p *models.Product, filter models.ProductFilter) bool {
	if filter.NameIContains != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*filter.NameIContains)) {
		return false
	}
	if filter.PriceGte != nil && p.Price.LessThan(*filter.PriceGte) {
		return false
	}
	if filter.PriceLte != nil && p.Price.GreaterThan(*filter.PriceLte) {
		return false
	}
	if filter.StockGte != nil && p.Stock < *filter.StockGte {
		return false
	}
	if filter.StockLte != nil && p.Stock > *filter.StockLte {
		return false
	}
	return true
}

func (m *mockProductRepo) List(ctx context.Context, filter models.ProductFilter, orderBy []string, limit, offset int) ([]*models.Product, error) {
	filtered := []*models.Product{}
	for _, p := range m.products {
		if m.matches(p, filter) {
			filtered = append(filtered, p)
		}
	}

	start := offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func (m *mockProductRepo) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	var count int64
	for _, p := range m.products {
		if m.matches(p, filter) {
			count++
		}
	}
	return count, nil
}

func intPtr(n int) *int {
	return &n
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestProductService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      CreateProductInput
		wantErrors []string
		wantStock  int
	}{
		{
			name:      "valid product",
			input:     CreateProductInput{Name: "Laptop", Price: "999.99", Stock: intPtr(10)},
			wantStock: 10,
		},
		{
			name:      "stock defaults to zero when omitted",
			input:     CreateProductInput{Name: "Mouse", Price: "25.50"},
			wantStock: 0,
		},
		{
			name:       "unparseable price",
			input:      CreateProductInput{Name: "Widget", Price: "notanumber"},
			wantErrors: []string{"Invalid price value."},
		},
		{
			name:       "negative price",
			input:      CreateProductInput{Name: "Widget", Price: "-5"},
			wantErrors: []string{"Price must be positive."},
		},
		{
			name:       "zero price",
			input:      CreateProductInput{Name: "Widget", Price: "0"},
			wantErrors: []string{"Price must be positive."},
		},
		{
			name:       "negative stock",
			input:      CreateProductInput{Name: "Widget", Price: "10", Stock: intPtr(-1)},
			wantErrors: []string{"Stock cannot be negative."},
		},
		{
			name:       "bad price and bad stock are both reported",
			input:      CreateProductInput{Name: "Widget", Price: "-5", Stock: intPtr(-1)},
			wantErrors: []string{"Price must be positive.", "Stock cannot be negative."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProductRepo{}
			svc := NewProductService(repo, testLogger())

			result, err := svc.Create(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}

			if len(tt.wantErrors) > 0 {
				if result.Product != nil {
					t.Errorf("Create() returned a product despite validation errors")
				}
				if len(result.Errors) != len(tt.wantErrors) {
					t.Fatalf("Create() errors = %v, want %v", result.Errors, tt.wantErrors)
				}
				for i, want := range tt.wantErrors {
					if result.Errors[i] != want {
						t.Errorf("Create() errors[%d] = %q, want %q", i, result.Errors[i], want)
					}
				}
				if len(repo.products) != 0 {
					t.Errorf("Create() persisted a product despite validation errors")
				}
				return
			}

			if result.Product == nil {
				t.Fatalf("Create() product = nil, errors = %v", result.Errors)
			}
			if result.Product.Price.String() != mustDecimal(t, tt.input.Price).String() {
				t.Errorf("Create() price = %s, want %s", result.Product.Price, tt.input.Price)
			}
			if result.Product.Stock != tt.wantStock {
				t.Errorf("Create() stock = %d, want %d", result.Product.Stock, tt.wantStock)
			}
		})
	}
}

func seedProducts(t *testing.T, prices ...string) *mockProductRepo {
	t.Helper()
	repo := &mockProductRepo{}
	for i, price := range prices {
		repo.products = append(repo.products, &models.Product{
			ID:    int64(i + 1),
			Name:  fmt.Sprintf("Product %d", i+1),
			Price: mustDecimal(t, price),
			Stock: 10,
		})
	}
	return repo
}

func TestProductService_List_PriceRangeInclusive(t *testing.T) {
	repo := seedProducts(t, "10", "50", "75", "100", "150")
	svc := NewProductService(repo, testLogger())

	gte := mustDecimal(t, "50")
	lte := mustDecimal(t, "100")
	connection, err := svc.List(context.Background(), ListProductsParams{
		Filter: models.ProductFilter{PriceGte: &gte, PriceLte: &lte},
	})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	// Bounds are inclusive: 50, 75 and 100 all match
	if len(connection.Edges) != 3 {
		t.Fatalf("List() returned %d edges, want 3", len(connection.Edges))
	}
	wantPrices := []string{"50", "75", "100"}
	for i, want := range wantPrices {
		if got := connection.Edges[i].Node.Price.String(); got != want {
			t.Errorf("List() edge[%d] price = %s, want %s", i, got, want)
		}
	}
}

func TestProductService_List_PaginationWalksWholeSet(t *testing.T) {
	repo := seedProducts(t, "10", "20", "30", "40", "50")
	svc := NewProductService(repo, testLogger())
	ctx := context.Background()

	collected := []int64{}
	after := ""
	pages := 0

	for {
		connection, err := svc.List(ctx, ListProductsParams{
			Page: models.PageArgs{First: 2, After: after},
		})
		if err != nil {
			t.Fatalf("List() unexpected error: %v", err)
		}
		pages++

		for _, edge := range connection.Edges {
			collected = append(collected, edge.Node.ID)
		}

		if !connection.PageInfo.HasNextPage {
			break
		}
		if connection.PageInfo.EndCursor == nil {
			t.Fatalf("List() has_next_page with nil end_cursor")
		}
		after = *connection.PageInfo.EndCursor
	}

	// 5 items at page size 2 means 3 pages concatenating to the full set
	if pages != 3 {
		t.Errorf("List() walked %d pages, want 3", pages)
	}
	if len(collected) != 5 {
		t.Fatalf("List() collected %d items, want 5", len(collected))
	}
	for i, id := range collected {
		if id != int64(i+1) {
			t.Errorf("List() collected[%d] = %d, want %d", i, id, i+1)
		}
	}
}

func TestProductService_List_PageInfoAndTotal(t *testing.T) {
	repo := seedProducts(t, "10", "20", "30", "40", "50")
	svc := NewProductService(repo, testLogger())
	ctx := context.Background()

	// First page: next but no previous, no total unless requested
	connection, err := svc.List(ctx, ListProductsParams{
		Page: models.PageArgs{First: 2},
	})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if !connection.PageInfo.HasNextPage {
		t.Errorf("List() first page has_next_page = false, want true")
	}
	if connection.PageInfo.HasPreviousPage {
		t.Errorf("List() first page has_previous_page = true, want false")
	}
	if connection.TotalCount != nil {
		t.Errorf("List() total_count computed without being requested")
	}

	// Second page with total requested
	connection, err = svc.List(ctx, ListProductsParams{
		Page: models.PageArgs{First: 2, After: *connection.PageInfo.EndCursor, IncludeTotal: true},
	})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if !connection.PageInfo.HasPreviousPage {
		t.Errorf("List() second page has_previous_page = false, want true")
	}
	if connection.TotalCount == nil || *connection.TotalCount != 5 {
		t.Errorf("List() total_count = %v, want 5", connection.TotalCount)
	}

	// Last page: no next
	connection, err = svc.List(ctx, ListProductsParams{
		Page: models.PageArgs{First: 2, After: *connection.PageInfo.EndCursor},
	})
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(connection.Edges) != 1 {
		t.Errorf("List() last page returned %d edges, want 1", len(connection.Edges))
	}
	if connection.PageInfo.HasNextPage {
		t.Errorf("List() last page has_next_page = true, want false")
	}
}

func TestProductService_List_RejectsInvalidCursor(t *testing.T) {
	repo := seedProducts(t, "10")
	svc := NewProductService(repo, testLogger())

	_, err := svc.List(context.Background(), ListProductsParams{
		Page: models.PageArgs{After: "not-a-cursor"},
	})
	if err == nil {
		t.Fatalf("List() accepted an invalid cursor")
	}
}
