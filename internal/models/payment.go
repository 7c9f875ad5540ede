package models

import "github.com/Lixing-Zhang/mint-kitchen/internal/money"

// CreatePaymentRequest represents an incoming payment request
// Schema matches POST /api/payments/create
type CreatePaymentRequest struct {
	SourceID       string      `json:"source_id"`
	OrderID        string      `json:"order_id"`
	AmountMoney    money.Cents `json:"amount_money"`
	IdempotencyKey string      `json:"idempotency_key,omitempty"`
}

// CreatePaymentResponse represents a captured payment
type CreatePaymentResponse struct {
	PaymentID  string `json:"payment_id"`
	Status     string `json:"status"`
	ReceiptURL string `json:"receipt_url,omitempty"`
	OrderID    string `json:"order_id"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Detail string `json:"detail"`
}
