package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
	"github.com/Lixing-Zhang/mint-kitchen/internal/service"
)

// OrderHandler handles order and payment HTTP requests
type OrderHandler struct {
	orderService   *service.OrderService
	paymentService *service.PaymentService
	log            *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, paymentService *service.PaymentService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		paymentService: paymentService,
		log:            log,
	}
}

// CreateOrder handles POST /api/orders/create
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest

	// Parse request body
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Error("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	// Validate and create order
	order, err := h.orderService.CreateOrder(r.Context(), req)
	if err != nil {
		h.log.Error("failed to create order", "error", err)

		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			WriteError(w, http.StatusBadRequest, "Order must contain at least one item", h.log)
		case errors.Is(err, service.ErrInvalidQuantity):
			WriteError(w, http.StatusBadRequest, "Quantity must be positive", h.log)
		case errors.Is(err, service.ErrInvalidPrice):
			WriteError(w, http.StatusBadRequest, "Price must not be negative", h.log)
		case errors.Is(err, service.ErrInvalidItemName):
			WriteError(w, http.StatusBadRequest, "Line item name is required", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Error creating order: "+err.Error(), h.log)
		}
		return
	}

	// Return successful response
	WriteJSON(w, http.StatusOK, order, h.log)
	h.log.Info("order created successfully",
		"order_id", order.OrderID,
		"items_count", len(req.LineItems),
		"total", order.TotalMoney.Amount.String(),
	)
}

// CreatePayment handles POST /api/payments/create
func (h *OrderHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Error("failed to decode payment request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	payment, err := h.paymentService.CreatePayment(r.Context(), req)
	if err != nil {
		h.log.Error("failed to process payment", "order_id", req.OrderID, "error", err)

		switch {
		case errors.Is(err, service.ErrMissingSource):
			WriteError(w, http.StatusBadRequest, "source_id is required", h.log)
		case errors.Is(err, service.ErrMissingOrderID):
			WriteError(w, http.StatusBadRequest, "order_id is required", h.log)
		case errors.Is(err, service.ErrInvalidAmount):
			WriteError(w, http.StatusBadRequest, "amount_money must be positive", h.log)
		case errors.Is(err, repository.ErrInvalidSource):
			WriteError(w, http.StatusBadRequest, "Invalid payment source", h.log)
		case errors.Is(err, repository.ErrOrderNotFound):
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
		case errors.Is(err, repository.ErrCardDeclined):
			WriteError(w, http.StatusPaymentRequired, "Card declined, please use a different card", h.log)
		case errors.Is(err, repository.ErrAmountMismatch):
			WriteError(w, http.StatusConflict, "Payment amount does not match order total", h.log)
		case errors.Is(err, repository.ErrOrderAlreadyPaid):
			WriteError(w, http.StatusConflict, "Order has already been paid", h.log)
		default:
			WriteError(w, http.StatusInternalServerError, "Error processing payment: "+err.Error(), h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, payment, h.log)
	h.log.Info("payment completed",
		"payment_id", payment.PaymentID,
		"order_id", payment.OrderID,
		"status", payment.Status,
	)
}
