package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
	"github.com/Lixing-Zhang/mint-kitchen/internal/service"
	"github.com/Lixing-Zhang/mint-kitchen/pkg/logger"
)

func newOrderHandler(ledger *repository.InMemoryLedger) *OrderHandler {
	return NewOrderHandler(
		service.NewOrderService(ledger),
		service.NewPaymentService(ledger),
		logger.Discard(),
	)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf []byte
	switch b := body.(type) {
	case string:
		buf = []byte(b)
	default:
		var err error
		buf, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Detail
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	handler := newOrderHandler(repository.NewInMemoryLedger("L1"))

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedDetail string
		checkResponse  func(*testing.T, *models.CreateOrderResponse)
	}{
		{
			name: "successful order",
			requestBody: models.CreateOrderRequest{
				LineItems: []models.OrderLineItem{
					{ItemID: "ghee-dosa", Name: "Ghee Dosa", Quantity: 2, Price: money.MustParsePrice("$6.00")},
					{ItemID: "chicken-biryani", Name: "Chicken Biryani", Quantity: 1, Price: money.MustParsePrice("$14.00")},
				},
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, order *models.CreateOrderResponse) {
				if order.OrderID == "" {
					t.Error("order ID is empty")
				}
				if order.TotalMoney.Amount != 2600 || order.TotalMoney.Currency != "USD" {
					t.Errorf("expected 2600 USD, got %+v", order.TotalMoney)
				}
				if order.LocationID != "L1" {
					t.Errorf("expected location L1, got %q", order.LocationID)
				}
			},
		},
		{
			name:           "wire format price string",
			requestBody:    `{"line_items":[{"item_id":"x","name":"Masala Dosa","quantity":3,"price":"$8.00"}]}`,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, order *models.CreateOrderResponse) {
				if order.TotalMoney.Amount != 2400 {
					t.Errorf("expected 2400, got %d", order.TotalMoney.Amount)
				}
			},
		},
		{
			name:           "empty order",
			requestBody:    models.CreateOrderRequest{LineItems: []models.OrderLineItem{}},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Order must contain at least one item",
		},
		{
			name: "invalid quantity",
			requestBody: models.CreateOrderRequest{
				LineItems: []models.OrderLineItem{{Name: "Ghee Dosa", Quantity: 0, Price: money.MustParsePrice("$6.00")}},
			},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Quantity must be positive",
		},
		{
			name:           "invalid price string",
			requestBody:    `{"line_items":[{"name":"Ghee Dosa","quantity":1,"price":"six dollars"}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Invalid request body",
		},
		{
			name:           "invalid JSON",
			requestBody:    `{"line_items":`,
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.CreateOrder, "/api/orders/create", tt.requestBody)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}

			if tt.expectedDetail != "" {
				if got := decodeDetail(t, w); got != tt.expectedDetail {
					t.Errorf("detail = %q, want %q", got, tt.expectedDetail)
				}
				return
			}

			var order models.CreateOrderResponse
			if err := json.NewDecoder(w.Body).Decode(&order); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, &order)
			}
		})
	}
}

func TestOrderHandler_CreatePayment(t *testing.T) {
	tests := []struct {
		name           string
		request        func(orderID string) models.CreatePaymentRequest
		expectedStatus int
		expectedDetail string
	}{
		{
			name: "successful payment",
			request: func(orderID string) models.CreatePaymentRequest {
				return models.CreatePaymentRequest{SourceID: "cnon:card-nonce-ok", OrderID: orderID, AmountMoney: 1200}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing source",
			request: func(orderID string) models.CreatePaymentRequest {
				return models.CreatePaymentRequest{OrderID: orderID, AmountMoney: 1200}
			},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "source_id is required",
		},
		{
			name: "non-positive amount",
			request: func(orderID string) models.CreatePaymentRequest {
				return models.CreatePaymentRequest{SourceID: "cnon:card-nonce-ok", OrderID: orderID, AmountMoney: -5}
			},
			expectedStatus: http.StatusBadRequest,
			expectedDetail: "amount_money must be positive",
		},
		{
			name: "unknown order",
			request: func(orderID string) models.CreatePaymentRequest {
				return models.CreatePaymentRequest{SourceID: "cnon:card-nonce-ok", OrderID: "missing", AmountMoney: 1200}
			},
			expectedStatus: http.StatusNotFound,
			expectedDetail: "Order not found",
		},
		{
			name: "declined card",
			request: func(orderID string) models.CreatePaymentRequest {
				return models.CreatePaymentRequest{SourceID: "cnon:card-nonce-declined", OrderID: orderID, AmountMoney: 1200}
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedDetail: "Card declined, please use a different card",
		},
		{
			name: "amount mismatch",
			request: func(orderID string) models.CreatePaymentRequest {
				return models.CreatePaymentRequest{SourceID: "cnon:card-nonce-ok", OrderID: orderID, AmountMoney: 999}
			},
			expectedStatus: http.StatusConflict,
			expectedDetail: "Payment amount does not match order total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := repository.NewInMemoryLedger("L1")
			handler := newOrderHandler(ledger)
			order, err := ledger.CreateOrder(context.Background(), []models.OrderLineItem{
				{Name: "Ghee Dosa", Quantity: 2, Price: money.MustParsePrice("$6.00")},
			}, "")
			if err != nil {
				t.Fatalf("CreateOrder() failed: %v", err)
			}

			w := postJSON(t, handler.CreatePayment, "/api/payments/create", tt.request(order.OrderID))

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedDetail != "" {
				if got := decodeDetail(t, w); got != tt.expectedDetail {
					t.Errorf("detail = %q, want %q", got, tt.expectedDetail)
				}
				return
			}

			var payment models.CreatePaymentResponse
			if err := json.NewDecoder(w.Body).Decode(&payment); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if payment.OrderID != order.OrderID || payment.Status != repository.PaymentCompleted || payment.ReceiptURL == "" {
				t.Errorf("unexpected payment: %+v", payment)
			}
		})
	}
}

func TestOrderHandler_DoublePayment(t *testing.T) {
	ledger := repository.NewInMemoryLedger("L1")
	handler := newOrderHandler(ledger)
	order, _ := ledger.CreateOrder(context.Background(), []models.OrderLineItem{
		{Name: "Ghee Dosa", Quantity: 1, Price: money.MustParsePrice("$6.00")},
	}, "")

	req := models.CreatePaymentRequest{SourceID: "cnon:card-nonce-ok", OrderID: order.OrderID, AmountMoney: 600}
	if w := postJSON(t, handler.CreatePayment, "/api/payments/create", req); w.Code != http.StatusOK {
		t.Fatalf("first payment failed: %d %s", w.Code, w.Body.String())
	}

	w := postJSON(t, handler.CreatePayment, "/api/payments/create", req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if got := decodeDetail(t, w); got != "Order has already been paid" {
		t.Errorf("detail = %q", got)
	}
}
