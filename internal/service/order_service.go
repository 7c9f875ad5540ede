package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidItemName = errors.New("line item name is required")
)

// OrderService handles order business logic
type OrderService struct {
	processor repository.PaymentProcessor
}

// NewOrderService creates a new order service
func NewOrderService(processor repository.PaymentProcessor) *OrderService {
	return &OrderService{
		processor: processor,
	}
}

// CreateOrder validates the line items and creates an unpaid order. The
// processor computes the authoritative total.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	// Validate request
	if len(req.LineItems) == 0 {
		return nil, ErrEmptyOrder
	}

	for _, item := range req.LineItems {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if item.Price.Cents() < 0 {
			return nil, ErrInvalidPrice
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, ErrInvalidItemName
		}
	}

	key := req.IdempotencyKey
	if key == "" {
		key = generateIdempotencyKey()
	}

	return s.processor.CreateOrder(ctx, req.LineItems, key)
}

// generateIdempotencyKey generates a unique key using UUID
func generateIdempotencyKey() string {
	return uuid.New().String()
}
