package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// Mock repositories for testing
type mockOrderRepo struct {
	orders  map[int64]*models.Order
	updates []confirmationUpdate
}

type confirmationUpdate struct {
	id        int64
	status    string
	lastError *string
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("order not found")
	}
	return order, nil
}

func (m *mockOrderRepo) UpdateConfirmation(ctx context.Context, id int64, status string, lastError *string) error {
	order, ok := m.orders[id]
	if !ok {
		return models.ErrNotFoundWithMsg("order not found")
	}
	order.ConfirmationStatus = status
	order.ConfirmationError = lastError
	m.updates = append(m.updates, confirmationUpdate{id, status, lastError})
	return nil
}

func (m *mockOrderRepo) IncrementConfirmationAttempts(ctx context.Context, id int64) error {
	order, ok := m.orders[id]
	if !ok {
		return models.ErrNotFoundWithMsg("order not found")
	}
	order.ConfirmationAttempts++
	return nil
}

// Unused methods for interface compliance
func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order, productIDs []int64) error {
	return nil
}
func (m *mockOrderRepo) List(ctx context.Context, filter models.OrderFilter, orderBy []string, limit, offset int) ([]*models.Order, error) {
	return nil, nil
}
func (m *mockOrderRepo) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	return 0, nil
}

type mockCustomerRepo struct {
	customers map[int64]*models.Customer
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, ok := m.customers[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("customer not found")
	}
	return customer, nil
}

// Unused methods for interface compliance
func (m *mockCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	return nil
}
func (m *mockCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return nil, models.ErrNotFoundWithMsg("customer not found")
}
func (m *mockCustomerRepo) List(ctx context.Context, filter models.CustomerFilter, orderBy []string, limit, offset int) ([]*models.Customer, error) {
	return nil, nil
}
func (m *mockCustomerRepo) Count(ctx context.Context, filter models.CustomerFilter) (int64, error) {
	return 0, nil
}

// stubSender fails a configured number of times before succeeding
type stubSender struct {
	failures int
	calls    int
	sentTo   []string
	content  []string
}

func (s *stubSender) Send(ctx context.Context, email, content string) error {
	s.calls++
	if s.calls <= s.failures {
		return fmt.Errorf("simulated send failure")
	}
	s.sentTo = append(s.sentTo, email)
	s.content = append(s.content, content)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixtures() (*mockOrderRepo, *mockCustomerRepo) {
	orders := &mockOrderRepo{
		orders: map[int64]*models.Order{
			1: {
				ID:                 1,
				CustomerID:         10,
				TotalAmount:        decimal.RequireFromString("1025.49"),
				OrderDate:          time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
				ConfirmationStatus: models.ConfirmationStatusPending,
			},
		},
	}
	customers := &mockCustomerRepo{
		customers: map[int64]*models.Customer{
			10: {ID: 10, Name: "Alice Johnson", Email: "alice@example.com"},
		},
	}
	return orders, customers
}

func TestConfirmationProcessor_Success(t *testing.T) {
	orders, customers := fixtures()
	sender := &stubSender{}
	processor := NewConfirmationProcessor(orders, customers, service.NewTemplateService(), sender, 3, testLogger())

	err := processor.Process(context.Background(), &models.OrderJob{OrderID: 1})
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}

	order := orders.orders[1]
	if order.ConfirmationStatus != models.ConfirmationStatusSent {
		t.Errorf("Process() status = %q, want %q", order.ConfirmationStatus, models.ConfirmationStatusSent)
	}
	if order.ConfirmationError != nil {
		t.Errorf("Process() confirmation_error = %q, want nil", *order.ConfirmationError)
	}
	if len(sender.sentTo) != 1 || sender.sentTo[0] != "alice@example.com" {
		t.Errorf("Process() sent to %v, want [alice@example.com]", sender.sentTo)
	}
	if !strings.Contains(sender.content[0], "Alice Johnson") || !strings.Contains(sender.content[0], "1025.49") {
		t.Errorf("Process() rendered content missing order details: %q", sender.content[0])
	}
}

func TestConfirmationProcessor_AlreadySentIsNoOp(t *testing.T) {
	orders, customers := fixtures()
	orders.orders[1].ConfirmationStatus = models.ConfirmationStatusSent
	sender := &stubSender{}
	processor := NewConfirmationProcessor(orders, customers, service.NewTemplateService(), sender, 3, testLogger())

	err := processor.Process(context.Background(), &models.OrderJob{OrderID: 1})
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}

	if sender.calls != 0 {
		t.Errorf("Process() sent %d confirmations for an already-sent order, want 0", sender.calls)
	}
	if len(orders.updates) != 0 {
		t.Errorf("Process() updated an already-sent order")
	}
}

func TestConfirmationProcessor_FailureWithRetriesLeft(t *testing.T) {
	orders, customers := fixtures()
	sender := &stubSender{failures: 10}
	processor := NewConfirmationProcessor(orders, customers, service.NewTemplateService(), sender, 3, testLogger())

	err := processor.Process(context.Background(), &models.OrderJob{OrderID: 1})
	if err == nil {
		t.Fatalf("Process() error = nil, want retryable error")
	}

	order := orders.orders[1]
	if order.ConfirmationAttempts != 1 {
		t.Errorf("Process() attempts = %d, want 1", order.ConfirmationAttempts)
	}
	if order.ConfirmationStatus != models.ConfirmationStatusFailed {
		t.Errorf("Process() status = %q, want %q", order.ConfirmationStatus, models.ConfirmationStatusFailed)
	}
	if order.ConfirmationError == nil || !strings.Contains(*order.ConfirmationError, "simulated send failure") {
		t.Errorf("Process() confirmation_error = %v, want the send failure recorded", order.ConfirmationError)
	}
}

func TestConfirmationProcessor_MaxRetriesExhausted(t *testing.T) {
	orders, customers := fixtures()
	orders.orders[1].ConfirmationAttempts = 2 // this attempt is the third and last
	sender := &stubSender{failures: 10}
	processor := NewConfirmationProcessor(orders, customers, service.NewTemplateService(), sender, 3, testLogger())

	err := processor.Process(context.Background(), &models.OrderJob{OrderID: 1})
	if err != nil {
		t.Fatalf("Process() error = %v, want nil once retries are exhausted", err)
	}

	order := orders.orders[1]
	if order.ConfirmationStatus != models.ConfirmationStatusFailed {
		t.Errorf("Process() status = %q, want %q", order.ConfirmationStatus, models.ConfirmationStatusFailed)
	}
	if order.ConfirmationError == nil || !strings.Contains(*order.ConfirmationError, "max retries exceeded") {
		t.Errorf("Process() confirmation_error = %v, want max retries recorded", order.ConfirmationError)
	}
}

func TestConfirmationProcessor_UnknownOrder(t *testing.T) {
	orders, customers := fixtures()
	sender := &stubSender{}
	processor := NewConfirmationProcessor(orders, customers, service.NewTemplateService(), sender, 3, testLogger())

	err := processor.Process(context.Background(), &models.OrderJob{OrderID: 999})
	if err == nil {
		t.Fatalf("Process() error = nil, want not-found error")
	}
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Process() error = %v, want wrapped not-found", err)
	}
	if sender.calls != 0 {
		t.Errorf("Process() attempted a send for an unknown order")
	}
}
