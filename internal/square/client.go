// Package square talks to the Square REST API. The client serves both the
// menu catalog and the order/payment flow for the production deployment.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
)

const (
	SandboxBaseURL    = "https://connect.squareupsandbox.com"
	ProductionBaseURL = "https://connect.squareup.com"

	// APIVersion pins the Square-Version header.
	APIVersion = "2024-10-17"

	defaultTimeout = 30 * time.Second
)

// Client is a Square API client
type Client struct {
	baseURL     string
	accessToken string
	locationID  string
	httpClient  *http.Client
	log         *slog.Logger

	locMu sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for environment ("sandbox" or "production").
// An empty locationID means the first location of the account is used.
func NewClient(environment, accessToken, locationID string, opts ...Option) *Client {
	base := SandboxBaseURL
	if environment == "production" {
		base = ProductionBaseURL
	}
	c := &Client{
		baseURL:     base,
		accessToken: accessToken,
		locationID:  locationID,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListItems fetches every catalog item with its category name and image URL.
func (c *Client) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	objects, err := c.listCatalog(ctx, "ITEM,CATEGORY,IMAGE")
	if err != nil {
		return nil, err
	}

	categories := make(map[string]string)
	images := make(map[string]string)
	for _, obj := range objects {
		switch obj.Type {
		case "CATEGORY":
			if obj.CategoryData != nil {
				categories[obj.ID] = obj.CategoryData.Name
			}
		case "IMAGE":
			if obj.ImageData != nil {
				images[obj.ID] = obj.ImageData.URL
			}
		}
	}

	items := make([]models.MenuItem, 0, len(objects))
	for _, obj := range objects {
		if obj.Type != "ITEM" || obj.ItemData == nil {
			continue
		}
		items = append(items, obj.menuItem(categories, images))
	}
	return items, nil
}

// ListCategories fetches the catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.CategoryInfo, error) {
	objects, err := c.listCatalog(ctx, "CATEGORY")
	if err != nil {
		return nil, err
	}

	categories := make([]models.CategoryInfo, 0, len(objects))
	for _, obj := range objects {
		if obj.Type != "CATEGORY" || obj.CategoryData == nil {
			continue
		}
		name := obj.CategoryData.Name
		if name == "" {
			name = "Unknown Category"
		}
		categories = append(categories, models.CategoryInfo{ID: obj.ID, Name: name})
	}
	return categories, nil
}

// GetItem fetches one catalog item.
func (c *Client) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	path := "/v2/catalog/object/" + url.PathEscape(id) + "?include_related_objects=true"

	var resp retrieveObjectResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if isNotFound(err) {
			return nil, repository.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	if resp.Object == nil || resp.Object.Type != "ITEM" || resp.Object.ItemData == nil {
		return nil, repository.ErrItemNotFound
	}

	categories := make(map[string]string)
	images := make(map[string]string)
	for _, obj := range resp.RelatedObjects {
		if obj.CategoryData != nil {
			categories[obj.ID] = obj.CategoryData.Name
		}
		if obj.ImageData != nil {
			images[obj.ID] = obj.ImageData.URL
		}
	}

	item := resp.Object.menuItem(categories, images)
	return &item, nil
}

// CreateOrder creates an unpaid order at the configured location.
func (c *Client) CreateOrder(ctx context.Context, lineItems []models.OrderLineItem, idempotencyKey string) (*models.CreateOrderResponse, error) {
	locationID, err := c.location(ctx)
	if err != nil {
		return nil, err
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	req := createOrderRequest{IdempotencyKey: idempotencyKey}
	req.Order.LocationID = locationID
	for _, li := range lineItems {
		req.Order.LineItems = append(req.Order.LineItems, orderLineItem{
			Name:           li.Name,
			Quantity:       strconv.Itoa(li.Quantity),
			BasePriceMoney: moneyAmount{Amount: li.Price.Cents(), Currency: models.CurrencyUSD},
		})
	}

	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/v2/orders", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("failed to create order: empty response")
	}

	return &models.CreateOrderResponse{
		OrderID: resp.Order.ID,
		TotalMoney: models.Money{
			Amount:   resp.Order.TotalMoney.Amount,
			Currency: resp.Order.TotalMoney.Currency,
		},
		LocationID: locationID,
	}, nil
}

// CreatePayment charges the card token for an order.
func (c *Client) CreatePayment(ctx context.Context, p models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	locationID, err := c.location(ctx)
	if err != nil {
		return nil, err
	}
	key := p.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}

	req := createPaymentRequest{
		IdempotencyKey: key,
		SourceID:       p.SourceID,
		AmountMoney:    moneyAmount{Amount: p.AmountMoney, Currency: models.CurrencyUSD},
		OrderID:        p.OrderID,
		LocationID:     locationID,
	}

	var resp createPaymentResponse
	if err := c.do(ctx, http.MethodPost, "/v2/payments", req, &resp); err != nil {
		if isNotFound(err) {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	if resp.Payment == nil {
		return nil, fmt.Errorf("failed to create payment: empty response")
	}

	return &models.CreatePaymentResponse{
		PaymentID:  resp.Payment.ID,
		Status:     resp.Payment.Status,
		ReceiptURL: resp.Payment.ReceiptURL,
		OrderID:    resp.Payment.OrderID,
	}, nil
}

// location returns the configured location, resolving the account's first
// location on first use.
func (c *Client) location(ctx context.Context) (string, error) {
	c.locMu.Lock()
	defer c.locMu.Unlock()

	if c.locationID != "" {
		return c.locationID, nil
	}

	var resp listLocationsResponse
	if err := c.do(ctx, http.MethodGet, "/v2/locations", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to list locations: %w", err)
	}
	if len(resp.Locations) == 0 {
		return "", ErrNoLocation
	}

	c.locationID = resp.Locations[0].ID
	c.log.Info("using square location", "location_id", c.locationID)
	return c.locationID, nil
}

func (c *Client) listCatalog(ctx context.Context, types string) ([]catalogObject, error) {
	var (
		objects []catalogObject
		cursor  string
	)
	for {
		q := url.Values{}
		q.Set("types", types)
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page listCatalogResponse
		if err := c.do(ctx, http.MethodGet, "/v2/catalog/list?"+q.Encode(), nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list catalog: %w", err)
		}
		objects = append(objects, page.Objects...)

		if page.Cursor == "" {
			return objects, nil
		}
		cursor = page.Cursor
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Square-Version", APIVersion)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("square request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response body: %w", err)
	}
	return nil
}

func (obj catalogObject) menuItem(categories, images map[string]string) models.MenuItem {
	data := obj.ItemData

	var price money.Cents
	if len(data.Variations) > 0 {
		if v := data.Variations[0].ItemVariationData; v != nil && v.PriceMoney != nil {
			price = v.PriceMoney.Amount
		}
	}

	var image string
	if len(data.ImageIDs) > 0 {
		image = images[data.ImageIDs[0]]
	}

	var category string
	if len(data.Categories) > 0 {
		category = categories[data.Categories[0].ID]
	} else if data.CategoryID != "" {
		category = categories[data.CategoryID]
	}

	name := data.Name
	if name == "" {
		name = "Unknown Item"
	}

	return models.MenuItem{
		ID:          obj.ID,
		Name:        name,
		Description: data.Description,
		Price:       money.Price(price),
		Image:       image,
		Category:    category,
	}
}
