package square

import "github.com/Lixing-Zhang/mint-kitchen/internal/money"

// Wire types for the subset of the Square API the client uses.

type moneyAmount struct {
	Amount   money.Cents `json:"amount"`
	Currency string      `json:"currency"`
}

type catalogObject struct {
	Type         string        `json:"type"`
	ID           string        `json:"id"`
	ItemData     *itemData     `json:"item_data,omitempty"`
	CategoryData *categoryData `json:"category_data,omitempty"`
	ImageData    *imageData    `json:"image_data,omitempty"`
}

type itemData struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Variations  []variation   `json:"variations"`
	ImageIDs    []string      `json:"image_ids"`
	Categories  []categoryRef `json:"categories"`
	CategoryID  string        `json:"category_id"`
}

type categoryRef struct {
	ID string `json:"id"`
}

type variation struct {
	ID                string             `json:"id"`
	ItemVariationData *itemVariationData `json:"item_variation_data,omitempty"`
}

type itemVariationData struct {
	Name       string       `json:"name"`
	PriceMoney *moneyAmount `json:"price_money,omitempty"`
}

type categoryData struct {
	Name string `json:"name"`
}

type imageData struct {
	URL string `json:"url"`
}

type listCatalogResponse struct {
	Objects []catalogObject `json:"objects"`
	Cursor  string          `json:"cursor"`
}

type retrieveObjectResponse struct {
	Object         *catalogObject  `json:"object"`
	RelatedObjects []catalogObject `json:"related_objects"`
}

type location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listLocationsResponse struct {
	Locations []location `json:"locations"`
}

type orderLineItem struct {
	Name           string      `json:"name"`
	Quantity       string      `json:"quantity"`
	BasePriceMoney moneyAmount `json:"base_price_money"`
}

type createOrderRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	Order          struct {
		LocationID string          `json:"location_id"`
		LineItems  []orderLineItem `json:"line_items"`
	} `json:"order"`
}

type order struct {
	ID         string      `json:"id"`
	LocationID string      `json:"location_id"`
	TotalMoney moneyAmount `json:"total_money"`
}

type createOrderResponse struct {
	Order *order `json:"order"`
}

type createPaymentRequest struct {
	IdempotencyKey string      `json:"idempotency_key"`
	SourceID       string      `json:"source_id"`
	AmountMoney    moneyAmount `json:"amount_money"`
	OrderID        string      `json:"order_id,omitempty"`
	LocationID     string      `json:"location_id,omitempty"`
}

type paymentObject struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ReceiptURL string `json:"receipt_url"`
	OrderID    string `json:"order_id"`
}

type createPaymentResponse struct {
	Payment *paymentObject `json:"payment"`
}
