package models

import "github.com/Lixing-Zhang/mint-kitchen/internal/money"

// OrderLineItem is one cart line as sent to the order endpoint
type OrderLineItem struct {
	ItemID   string      `json:"item_id"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    money.Price `json:"price"`
}

// Subtotal returns price times quantity.
func (li OrderLineItem) Subtotal() money.Cents {
	return li.Price.Cents().Times(li.Quantity)
}

// CreateOrderRequest represents an incoming order request
// Schema matches POST /api/orders/create
type CreateOrderRequest struct {
	LineItems      []OrderLineItem `json:"line_items"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// Money is an amount in minor units plus its currency.
type Money struct {
	Amount   money.Cents `json:"amount"`
	Currency string      `json:"currency"`
}

// CreateOrderResponse represents a created, unpaid order
type CreateOrderResponse struct {
	OrderID    string `json:"order_id"`
	TotalMoney Money  `json:"total_money"`
	LocationID string `json:"location_id,omitempty"`
}

// CurrencyUSD is the only supported currency.
const CurrencyUSD = "USD"
