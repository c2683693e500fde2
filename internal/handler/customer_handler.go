package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input service.CreateCustomerInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.customerService.Create(r.Context(), input)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	if result.Customer != nil {
		respondCreated(w, result)
		return
	}
	respondSuccess(w, result)
}

// BulkCreateCustomers handles POST /customers/bulk
func (h *CustomerHandler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var inputs []service.CreateCustomerInput

	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.customerService.BulkCreate(r.Context(), inputs)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.CustomerFilter{
		NameIContains:   stringParam(query, "name_icontains"),
		EmailIContains:  stringParam(query, "email_icontains"),
		PhoneStartsWith: stringParam(query, "phone_startswith"),
	}

	var err error
	if filter.CreatedAtGte, err = timeParam(query, "created_at_gte"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if filter.CreatedAtLte, err = timeParam(query, "created_at_lte"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	params := service.ListCustomersParams{
		Filter:  filter,
		OrderBy: orderByParam(query),
		Page:    pageParams(query),
	}

	connection, err := h.customerService.List(r.Context(), params)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, connection)
}
