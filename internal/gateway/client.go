// Package gateway is the storefront's client for the ordering API. Every
// call returns a Result instead of an error so failures are recovered at
// this boundary and the caller decides what to show.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
)

// DefaultTimeout bounds every call when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Result carries either Data or Err, never both.
type Result[T any] struct {
	Data *T
	Err  error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil && r.Data != nil
}

// Message returns the failure text, or "" on success.
func (r Result[T]) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func ok[T any](data *T) Result[T] {
	return Result[T]{Data: data}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Client calls the ordering API
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchMenuData fetches the menu grouped by category. Items without an id
// are keyed by name.
func (c *Client) FetchMenuData(ctx context.Context) Result[models.Menu] {
	var menu models.Menu
	if err := c.do(ctx, "fetch menu", http.MethodGet, "/api/menu", nil, &menu); err != nil {
		c.log.Warn("failed to fetch menu from API", "error", err)
		return fail[models.Menu](err)
	}
	menu.Normalize()
	return ok(&menu)
}

// FetchCategories fetches the catalog categories.
func (c *Client) FetchCategories(ctx context.Context) Result[models.CategoryList] {
	var list models.CategoryList
	if err := c.do(ctx, "fetch categories", http.MethodGet, "/api/categories", nil, &list); err != nil {
		c.log.Warn("failed to fetch categories from API", "error", err)
		return fail[models.CategoryList](err)
	}
	return ok(&list)
}

// FetchItem fetches a single menu item.
func (c *Client) FetchItem(ctx context.Context, itemID string) Result[models.MenuItem] {
	var item models.MenuItem
	path := "/api/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, "fetch item", http.MethodGet, path, nil, &item); err != nil {
		c.log.Warn("failed to fetch item from API", "item_id", itemID, "error", err)
		return fail[models.MenuItem](err)
	}
	if item.ID == "" {
		item.ID = item.Key()
	}
	return ok(&item)
}

// CreateOrder creates an unpaid order. The returned total is computed by
// the server and is the amount actually charged.
func (c *Client) CreateOrder(ctx context.Context, lineItems []models.OrderLineItem, idempotencyKey string) Result[models.CreateOrderResponse] {
	body := models.CreateOrderRequest{
		LineItems:      lineItems,
		IdempotencyKey: idempotencyKey,
	}

	var resp models.CreateOrderResponse
	if err := c.do(ctx, "create order", http.MethodPost, "/api/orders/create", body, &resp); err != nil {
		c.log.Error("failed to create order", "error", err)
		return fail[models.CreateOrderResponse](err)
	}
	if resp.OrderID == "" {
		err := fmt.Errorf("create order: missing order_id: %w", ErrIncompleteResponse)
		c.log.Error("failed to create order", "error", err)
		return fail[models.CreateOrderResponse](err)
	}
	return ok(&resp)
}

// CreatePayment charges sourceID, a single-use card token, for orderID.
func (c *Client) CreatePayment(ctx context.Context, sourceID, orderID string, amount money.Cents, idempotencyKey string) Result[models.CreatePaymentResponse] {
	body := models.CreatePaymentRequest{
		SourceID:       sourceID,
		OrderID:        orderID,
		AmountMoney:    amount,
		IdempotencyKey: idempotencyKey,
	}

	var resp models.CreatePaymentResponse
	if err := c.do(ctx, "create payment", http.MethodPost, "/api/payments/create", body, &resp); err != nil {
		c.log.Error("failed to process payment", "order_id", orderID, "error", err)
		return fail[models.CreatePaymentResponse](err)
	}
	return ok(&resp)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		_ = json.Unmarshal(data, &errResp)
		return &HTTPError{Status: resp.StatusCode, Detail: errResp.Detail}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: invalid response body: %w", op, err)
	}
	return nil
}
