package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
)

var (
	ErrMissingSource  = errors.New("source_id is required")
	ErrMissingOrderID = errors.New("order_id is required")
	ErrInvalidAmount  = errors.New("amount_money must be positive")
)

// PaymentService charges orders
type PaymentService struct {
	processor repository.PaymentProcessor
}

// NewPaymentService creates a new payment service
func NewPaymentService(processor repository.PaymentProcessor) *PaymentService {
	return &PaymentService{
		processor: processor,
	}
}

// CreatePayment validates the request and charges the card token
func (s *PaymentService) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	if strings.TrimSpace(req.SourceID) == "" {
		return nil, ErrMissingSource
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, ErrMissingOrderID
	}
	if req.AmountMoney <= 0 {
		return nil, ErrInvalidAmount
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = generateIdempotencyKey()
	}

	return s.processor.CreatePayment(ctx, req)
}
