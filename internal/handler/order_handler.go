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

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrderInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.orderService.Create(r.Context(), input)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	if result.Order != nil {
		respondCreated(w, result)
		return
	}
	respondSuccess(w, result)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, order)
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.OrderFilter{
		CustomerName: stringParam(query, "customer_name"),
		ProductName:  stringParam(query, "product_name"),
	}

	var err error
	if filter.TotalAmountGte, err = decimalParam(query, "total_amount_gte"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if filter.TotalAmountLte, err = decimalParam(query, "total_amount_lte"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if filter.OrderDateGte, err = timeParam(query, "order_date_gte"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if filter.OrderDateLte, err = timeParam(query, "order_date_lte"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if filter.ProductID, err = int64Param(query, "product_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	params := service.ListOrdersParams{
		Filter:  filter,
		OrderBy: orderByParam(query),
		Page:    pageParams(query),
	}

	connection, err := h.orderService.List(r.Context(), params)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, connection)
}
