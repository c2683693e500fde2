package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/queue"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// OrderService handles order validation, creation and listing
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, params ListOrdersParams) (*models.Connection[*models.Order], error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	queueClient  queue.Client
	logger       *slog.Logger
}

// NewOrderService creates a new order service. queueClient may be nil
// when confirmation sends are not configured.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	queueClient queue.Client,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		queueClient:  queueClient,
		logger:       logger,
	}
}

// Create validates and creates an order. Identifier-level preconditions
// (unknown customer, empty product list) fail fast; per-item problems
// (unparseable or missing product IDs) accumulate and are reported
// together. TotalAmount is an exact decimal snapshot of the referenced
// product prices at creation time.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	customerID, parseErr := strconv.ParseInt(input.CustomerID, 10, 64)
	var customer *models.Customer
	if parseErr == nil {
		var err error
		customer, err = s.customerRepo.GetByID(ctx, customerID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	if customer == nil {
		return &CreateOrderResult{Errors: []string{"Invalid customer ID."}}, nil
	}

	if len(input.ProductIDs) == 0 {
		return &CreateOrderResult{Errors: []string{"At least one product must be provided."}}, nil
	}

	validationErrors := []string{}

	// Unparseable IDs are reported individually; parsing continues.
	productIDs := []int64{}
	seen := map[int64]bool{}
	for _, raw := range input.ProductIDs {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("Invalid product ID: %s", raw))
			continue
		}
		if !seen[id] {
			seen[id] = true
			productIDs = append(productIDs, id)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		validationErrors = append(validationErrors, "One or more product IDs are invalid.")
	}

	if len(validationErrors) > 0 {
		return &CreateOrderResult{Errors: validationErrors}, nil
	}

	totalAmount := decimal.Zero
	for _, product := range products {
		totalAmount = totalAmount.Add(product.Price)
	}

	orderDate := time.Now().UTC()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	order := &models.Order{
		CustomerID:  customer.ID,
		TotalAmount: totalAmount,
		OrderDate:   orderDate,
	}

	if err := s.orderRepo.Create(ctx, order, productIDs); err != nil {
		s.logger.Error("failed to create order",
			slog.Int64("customer_id", customer.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", customer.ID),
		slog.String("total_amount", order.TotalAmount.String()),
		slog.Int("products", len(productIDs)),
	)

	// Queue the confirmation send. A publish failure is logged but does
	// not fail the request; the order is already persisted.
	if s.queueClient != nil {
		job := &models.OrderJob{OrderID: order.ID}
		if err := s.queueClient.Publish(ctx, job); err != nil {
			s.logger.Error("failed to queue order confirmation",
				slog.Int64("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &CreateOrderResult{
		Order:  order,
		Errors: []string{},
	}, nil
}

// GetByID retrieves an order by ID
func (s *orderService) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// List retrieves one cursor page of filtered, ordered orders.
// The total count query only runs when the caller asked for the total.
func (s *orderService) List(ctx context.Context, params ListOrdersParams) (*models.Connection[*models.Order], error) {
	params.Page.ValidateAndSetDefaults()

	offset, err := params.Page.Offset()
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.List(ctx, params.Filter, params.OrderBy, params.Page.First+1, offset)
	if err != nil {
		return nil, err
	}

	connection := models.NewConnection(orders, offset, params.Page.First)

	if params.Page.IncludeTotal {
		total, err := s.orderRepo.Count(ctx, params.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count orders: %w", err)
		}
		connection.TotalCount = &total
	}

	return &connection, nil
}
