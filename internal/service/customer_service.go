package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

// CustomerService handles customer validation, creation and listing
type CustomerService interface {
	Create(ctx context.Context, input CreateCustomerInput) (*CreateCustomerResult, error)
	BulkCreate(ctx context.Context, inputs []CreateCustomerInput) (*BulkCreateCustomersResult, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, params ListCustomersParams) (*models.Connection[*models.Customer], error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// validate runs both checks regardless of whether the first fails, so a
// caller sees every problem in one response. The duplicate check here is a
// pre-check for a better error message; the unique index is authoritative.
func (s *customerService) validate(ctx context.Context, input CreateCustomerInput) ([]string, error) {
	validationErrors := []string{}

	_, err := s.customerRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		validationErrors = append(validationErrors, "Email already exists.")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if input.Phone != "" && !models.IsValidPhone(input.Phone) {
		validationErrors = append(validationErrors, "Invalid phone number format.")
	}

	return validationErrors, nil
}

// create persists a single validated customer. An empty phone is stored
// as absent. A concurrent duplicate insert rejected by the unique index
// is reported exactly like the pre-check would have reported it.
func (s *customerService) create(ctx context.Context, input CreateCustomerInput) (*models.Customer, []string, error) {
	customer := &models.Customer{
		Name:  input.Name,
		Email: input.Email,
	}
	if input.Phone != "" {
		phone := input.Phone
		customer.Phone = &phone
	}

	err := s.customerRepo.Create(ctx, customer)
	if errors.Is(err, models.ErrDuplicateEmail) {
		return nil, []string{"Email already exists."}, nil
	}
	if err != nil {
		s.logger.Error("failed to create customer",
			slog.String("email", input.Email),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil, nil
}

// Create validates and creates a single customer
func (s *customerService) Create(ctx context.Context, input CreateCustomerInput) (*CreateCustomerResult, error) {
	validationErrors, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(validationErrors) > 0 {
		return &CreateCustomerResult{Errors: validationErrors}, nil
	}

	customer, createErrors, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(createErrors) > 0 {
		return &CreateCustomerResult{Errors: createErrors}, nil
	}

	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("email", customer.Email),
	)

	return &CreateCustomerResult{
		Customer: customer,
		Message:  "Customer created successfully.",
		Errors:   []string{},
	}, nil
}

// BulkCreate processes entries in input order. Each entry is validated
// independently; failures are recorded as "Row {index}: ..." and skipped.
// Passing entries persist immediately, so later duplicate checks within
// the same batch see earlier rows. Rows must not be parallelized for
// exactly that reason.
func (s *customerService) BulkCreate(ctx context.Context, inputs []CreateCustomerInput) (*BulkCreateCustomersResult, error) {
	created := []*models.Customer{}
	rowErrors := []string{}

	for index, input := range inputs {
		validationErrors, err := s.validate(ctx, input)
		if err != nil {
			return nil, err
		}
		if len(validationErrors) > 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", index, strings.Join(validationErrors, "; ")))
			continue
		}

		customer, createErrors, err := s.create(ctx, input)
		if err != nil {
			return nil, err
		}
		if len(createErrors) > 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %s", index, strings.Join(createErrors, "; ")))
			continue
		}

		created = append(created, customer)
	}

	s.logger.Info("bulk customer create finished",
		slog.Int("requested", len(inputs)),
		slog.Int("created", len(created)),
		slog.Int("failed", len(rowErrors)),
	)

	return &BulkCreateCustomersResult{
		Customers: created,
		Errors:    rowErrors,
	}, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// List retrieves one cursor page of filtered, ordered customers.
// The total count query only runs when the caller asked for the total.
func (s *customerService) List(ctx context.Context, params ListCustomersParams) (*models.Connection[*models.Customer], error) {
	params.Page.ValidateAndSetDefaults()

	offset, err := params.Page.Offset()
	if err != nil {
		return nil, err
	}

	// Fetch one extra row to detect whether another page exists.
	customers, err := s.customerRepo.List(ctx, params.Filter, params.OrderBy, params.Page.First+1, offset)
	if err != nil {
		return nil, err
	}

	connection := models.NewConnection(customers, offset, params.Page.First)

	if params.Page.IncludeTotal {
		total, err := s.customerRepo.Count(ctx, params.Filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count customers: %w", err)
		}
		connection.TotalCount = &total
	}

	return &connection, nil
}
