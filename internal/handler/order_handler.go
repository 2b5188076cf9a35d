package handler

import (
	"encoding/json"
	"net/http"

	"course-booking/internal/model"
	"course-booking/internal/service"

	"github.com/rs/zerolog"
)

const ordersPath = "/api/orders/"

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequestBody, h.logger)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp, h.logger)
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	orders, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to fetch orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders, h.logger)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	order, err := h.service.Get(r.Context(), pathID(r, ordersPath))
	if err != nil {
		writeServiceError(w, err, "Failed to fetch order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order, h.logger)
}

// Delete handles DELETE /api/orders/{id} requests.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, h.logger)
		return
	}

	resp, err := h.service.Delete(r.Context(), pathID(r, ordersPath))
	if err != nil {
		writeServiceError(w, err, "Failed to cancel order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp, h.logger)
}
