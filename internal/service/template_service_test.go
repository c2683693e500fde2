package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

func confirmationFixtures(t *testing.T) (*models.Customer, *models.Order) {
	t.Helper()
	phone := "+1234567890"
	customer := &models.Customer{
		ID:    1,
		Name:  "Alice Johnson",
		Email: "alice@example.com",
		Phone: &phone,
	}
	order := &models.Order{
		ID:          42,
		CustomerID:  1,
		TotalAmount: mustDecimal(t, "1025.49"),
		OrderDate:   time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	return customer, order
}

func TestTemplateService_Render(t *testing.T) {
	svc := NewTemplateService()
	customer, order := confirmationFixtures(t)

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "all placeholders",
			template: "Hi {name} ({email}, {phone}), order #{order_id} for {total_amount} on {order_date}",
			want:     "Hi Alice Johnson (alice@example.com, +1234567890), order #42 for 1025.49 on 2025-01-15T10:30:00Z",
		},
		{
			name:     "no placeholders",
			template: "Thanks for your order!",
			want:     "Thanks for your order!",
		},
		{
			name:     "unknown placeholder renders empty",
			template: "Hi {name}, ref {unknown_field}.",
			want:     "Hi Alice Johnson, ref .",
		},
		{
			name:     "repeated placeholder",
			template: "{name} {name}",
			want:     "Alice Johnson Alice Johnson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Render(tt.template, customer, order)
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateService_Render_MissingPhone(t *testing.T) {
	svc := NewTemplateService()
	customer, order := confirmationFixtures(t)
	customer.Phone = nil

	got, err := svc.Render("phone: {phone}", customer, order)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if got != "phone: " {
		t.Errorf("Render() = %q, want %q", got, "phone: ")
	}
}

func TestTemplateService_Render_NilArguments(t *testing.T) {
	svc := NewTemplateService()
	customer, order := confirmationFixtures(t)

	if _, err := svc.Render("x", nil, order); err == nil {
		t.Errorf("Render() accepted nil customer")
	}
	if _, err := svc.Render("x", customer, nil); err == nil {
		t.Errorf("Render() accepted nil order")
	}
}

func TestTemplateService_Render_DefaultTemplate(t *testing.T) {
	svc := NewTemplateService()
	customer, order := confirmationFixtures(t)

	got, err := svc.Render(DefaultConfirmationTemplate, customer, order)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	want := "Hi Alice Johnson, your order #42 totalling 1025.49 placed on 2025-01-15T10:30:00Z has been received."
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestTemplateService_ValidateTemplate(t *testing.T) {
	svc := NewTemplateService()

	tests := []struct {
		name     string
		template string
		wantErr  bool
	}{
		{name: "valid template", template: "Hi {name}, order {order_id}", wantErr: false},
		{name: "no placeholders", template: "static text", wantErr: false},
		{name: "empty template", template: "", wantErr: true},
		{name: "invalid placeholder", template: "Hi {nickname}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateTemplate(tt.template)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTemplateService_ExtractPlaceholders(t *testing.T) {
	svc := NewTemplateService()

	got := svc.ExtractPlaceholders("Hi {name}, order #{order_id} for {total_amount}")
	want := []string{"name", "order_id", "total_amount"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractPlaceholders() = %v, want %v", got, want)
	}

	if got := svc.ExtractPlaceholders("no placeholders"); len(got) != 0 {
		t.Errorf("ExtractPlaceholders() = %v, want empty", got)
	}
}
