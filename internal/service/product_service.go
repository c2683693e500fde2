package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// ProductService handles product validation, creation and listing
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*CreateProductResult, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, params ListProductsParams) (*models.Connection[*models.Product], error)
}

type productService struct {
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create validates and creates a product. Both the price and the stock
// checks are evaluated before returning, so a caller sees every problem
// in one response. Stock defaults to 0 when omitted.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*CreateProductResult, error) {
	validationErrors := []string{}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		validationErrors = append(validationErrors, "Invalid price value.")
	} else if !price.IsPositive() {
		validationErrors = append(validationErrors, "Price must be positive.")
	}

	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}
	if stock < 0 {
		validationErrors = append(validationErrors, "Stock cannot be negative.")
	}

	if len(validationErrors) > 0 {
		return &CreateProductResult{Errors: validationErrors}, nil
	}

	product := &models.Product{
		Name:  input.Name,
		Price: price,
		Stock: stock,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("failed to create product",
			slog.String("name", input.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
		slog.String("price", product.Price.String()),
	)

	return &CreateProductResult{
		Product: product,
		Errors:  []string{},
	}, nil
}

// GetByID retrieves a product by ID
func (s *productService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return product, nil
}

// List retrieves one cursor page of filtered, ordered products.
// The total count query only runs when the caller asked for the total.
func (s *productService) List(ctx context.Context, params ListProductsParams) (*models.Connection[*models.Product], error) {
	params.Page.ValidateAndSetDefaults()

	offset, err := params.Page.Offset()
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.List(ctx, params.Filter, params.OrderBy, params.Page.First+1, offset)
	if err != nil {
		return nil, err
	}

	connection := models.NewConnection(products, offset, params.Page.First)

	if params.Page.IncludeTotal {
		total, err := s.productRepo.Count(ctx, params.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
		connection.TotalCount = &total
	}

	return &connection, nil
}
