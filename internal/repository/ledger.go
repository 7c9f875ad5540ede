package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrAmountMismatch   = errors.New("payment amount does not match order total")
	ErrOrderAlreadyPaid = errors.New("order has already been paid")
	ErrCardDeclined     = errors.New("card declined")
	ErrInvalidSource    = errors.New("invalid payment source")
)

// Payment statuses.
const (
	PaymentCompleted = "COMPLETED"
)

// Sandbox nonces understood by the in-memory ledger.
const (
	nonceDeclined = "cnon:card-nonce-declined"
	noncePrefix   = "cnon:"
)

// PaymentProcessor creates orders and charges them. Implementations honour
// idempotency keys: repeating a call with the same key returns the original
// result instead of acting twice.
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, lineItems []models.OrderLineItem, idempotencyKey string) (*models.CreateOrderResponse, error)
	CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error)
}

type ledgerOrder struct {
	response models.CreateOrderResponse
	paid     bool
}

// InMemoryLedger is a sandbox PaymentProcessor that keeps orders and
// payments in memory.
type InMemoryLedger struct {
	locationID  string
	receiptBase string

	mu          sync.Mutex
	orders      map[string]*ledgerOrder
	orderKeys   map[string]string
	paymentKeys map[string]models.CreatePaymentResponse
}

// NewInMemoryLedger creates an empty ledger for locationID
func NewInMemoryLedger(locationID string) *InMemoryLedger {
	if locationID == "" {
		locationID = "LOCAL"
	}
	return &InMemoryLedger{
		locationID:  locationID,
		receiptBase: "https://squareupsandbox.com/receipt/preview/",
		orders:      make(map[string]*ledgerOrder),
		orderKeys:   make(map[string]string),
		paymentKeys: make(map[string]models.CreatePaymentResponse),
	}
}

// CreateOrder records an unpaid order and returns its total in cents
func (l *InMemoryLedger) CreateOrder(ctx context.Context, lineItems []models.OrderLineItem, idempotencyKey string) (*models.CreateOrderResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.orderKeys[idempotencyKey]; ok && idempotencyKey != "" {
		resp := l.orders[id].response
		return &resp, nil
	}

	var total money.Cents
	for _, li := range lineItems {
		total += li.Subtotal()
	}

	resp := models.CreateOrderResponse{
		OrderID:    uuid.New().String(),
		TotalMoney: models.Money{Amount: total, Currency: models.CurrencyUSD},
		LocationID: l.locationID,
	}
	l.orders[resp.OrderID] = &ledgerOrder{response: resp}
	if idempotencyKey != "" {
		l.orderKeys[idempotencyKey] = resp.OrderID
	}

	return &resp, nil
}

// CreatePayment charges an order. The amount must equal the order total and
// an order can be paid only once.
func (l *InMemoryLedger) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if resp, ok := l.paymentKeys[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return &resp, nil
	}

	order, exists := l.orders[req.OrderID]
	if !exists {
		return nil, ErrOrderNotFound
	}
	if order.paid {
		return nil, ErrOrderAlreadyPaid
	}
	if req.AmountMoney != order.response.TotalMoney.Amount {
		return nil, ErrAmountMismatch
	}
	if !strings.HasPrefix(req.SourceID, noncePrefix) {
		return nil, ErrInvalidSource
	}
	if req.SourceID == nonceDeclined {
		return nil, ErrCardDeclined
	}

	paymentID := uuid.New().String()
	resp := models.CreatePaymentResponse{
		PaymentID:  paymentID,
		Status:     PaymentCompleted,
		ReceiptURL: l.receiptBase + paymentID,
		OrderID:    req.OrderID,
	}
	order.paid = true
	if req.IdempotencyKey != "" {
		l.paymentKeys[req.IdempotencyKey] = resp
	}

	return &resp, nil
}

// Paid reports whether orderID has been charged.
func (l *InMemoryLedger) Paid(orderID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[orderID]
	return ok && order.paid
}
