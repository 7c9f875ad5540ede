package square

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/mint-kitchen/internal/models"
	"github.com/Lixing-Zhang/mint-kitchen/internal/money"
	"github.com/Lixing-Zhang/mint-kitchen/internal/repository"
	"github.com/Lixing-Zhang/mint-kitchen/pkg/logger"
)

func newTestClient(t *testing.T, locationID string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Square-Version"); got != APIVersion {
			t.Errorf("Square-Version = %q", got)
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient("sandbox", "test-token", locationID, WithBaseURL(srv.URL), WithLogger(logger.Discard()))
}

func TestNewClient_BaseURL(t *testing.T) {
	if c := NewClient("production", "t", ""); c.baseURL != ProductionBaseURL {
		t.Errorf("production base = %q", c.baseURL)
	}
	if c := NewClient("sandbox", "t", ""); c.baseURL != SandboxBaseURL {
		t.Errorf("sandbox base = %q", c.baseURL)
	}
}

func TestClient_ListItems(t *testing.T) {
	pages := 0
	c := newTestClient(t, "L1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/catalog/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("types") != "ITEM,CATEGORY,IMAGE" {
			t.Errorf("types = %q", r.URL.Query().Get("types"))
		}
		pages++

		if r.URL.Query().Get("cursor") == "" {
			_, _ = w.Write([]byte(`{
				"objects": [
					{"type": "CATEGORY", "id": "C1", "category_data": {"name": "Dosas"}},
					{"type": "IMAGE", "id": "I1", "image_data": {"url": "https://img/dosa.png"}},
					{"type": "ITEM", "id": "IT1", "item_data": {
						"name": "Ghee Dosa",
						"description": "Crispy",
						"variations": [{"id": "V1", "item_variation_data": {"price_money": {"amount": 600, "currency": "USD"}}}],
						"image_ids": ["I1"],
						"categories": [{"id": "C1"}]
					}}
				],
				"cursor": "page2"
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"objects": [
				{"type": "ITEM", "id": "IT2", "item_data": {"name": "Mango Lassi"}}
			]
		}`))
	})

	items, err := c.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems() unexpected error: %v", err)
	}
	if pages != 2 {
		t.Errorf("expected 2 pages, got %d", pages)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	dosa := items[0]
	if dosa.ID != "IT1" || dosa.Price.Cents() != 600 || dosa.Image != "https://img/dosa.png" || dosa.Category != "Dosas" {
		t.Errorf("unexpected item: %+v", dosa)
	}
	lassi := items[1]
	if lassi.Price.Cents() != 0 || lassi.Category != "" || lassi.Image != "" {
		t.Errorf("unexpected item without variations: %+v", lassi)
	}
}

func TestClient_ListCategories(t *testing.T) {
	c := newTestClient(t, "L1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"objects": [
			{"type": "CATEGORY", "id": "C1", "category_data": {"name": "Curries"}},
			{"type": "CATEGORY", "id": "C2", "category_data": {}}
		]}`))
	})

	categories, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() unexpected error: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Curries" || categories[1].Name != "Unknown Category" {
		t.Errorf("unexpected categories: %+v", categories)
	}
}

func TestClient_GetItem(t *testing.T) {
	c := newTestClient(t, "L1", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/catalog/object/IT1":
			_, _ = w.Write([]byte(`{
				"object": {"type": "ITEM", "id": "IT1", "item_data": {
					"name": "Butter Chicken",
					"variations": [{"item_variation_data": {"price_money": {"amount": 1500, "currency": "USD"}}}],
					"category_id": "C3"
				}},
				"related_objects": [{"type": "CATEGORY", "id": "C3", "category_data": {"name": "Curries"}}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors": [{"category": "INVALID_REQUEST_ERROR", "code": "NOT_FOUND", "detail": "Object not found"}]}`))
		}
	})
	ctx := context.Background()

	item, err := c.GetItem(ctx, "IT1")
	if err != nil {
		t.Fatalf("GetItem() unexpected error: %v", err)
	}
	if item.Name != "Butter Chicken" || item.Price.Cents() != 1500 || item.Category != "Curries" {
		t.Errorf("unexpected item: %+v", item)
	}

	if _, err := c.GetItem(ctx, "missing"); !errors.Is(err, repository.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestClient_CreateOrder(t *testing.T) {
	locationCalls := 0
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/locations":
			locationCalls++
			_, _ = w.Write([]byte(`{"locations": [{"id": "LOC1"}, {"id": "LOC2"}]}`))
		case "/v2/orders":
			var req createOrderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
				return
			}
			if req.IdempotencyKey != "key-1" || req.Order.LocationID != "LOC1" {
				t.Errorf("unexpected request: %+v", req)
			}
			if len(req.Order.LineItems) != 1 || req.Order.LineItems[0].Quantity != "2" || req.Order.LineItems[0].BasePriceMoney.Amount != 600 {
				t.Errorf("unexpected line items: %+v", req.Order.LineItems)
			}
			_, _ = w.Write([]byte(`{"order": {"id": "O1", "total_money": {"amount": 1200, "currency": "USD"}}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	lines := []models.OrderLineItem{{ItemID: "IT1", Name: "Ghee Dosa", Quantity: 2, Price: money.MustParsePrice("$6.00")}}
	for i := 0; i < 2; i++ {
		resp, err := c.CreateOrder(context.Background(), lines, "key-1")
		if err != nil {
			t.Fatalf("CreateOrder() unexpected error: %v", err)
		}
		if resp.OrderID != "O1" || resp.TotalMoney.Amount != 1200 || resp.LocationID != "LOC1" {
			t.Errorf("unexpected response: %+v", resp)
		}
	}
	if locationCalls != 1 {
		t.Errorf("expected location to be resolved once, got %d calls", locationCalls)
	}
}

func TestClient_CreateOrder_NoLocation(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"locations": []}`))
	})

	if _, err := c.CreateOrder(context.Background(), nil, ""); !errors.Is(err, ErrNoLocation) {
		t.Errorf("expected ErrNoLocation, got %v", err)
	}
}

func TestClient_CreatePayment(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantDetail string
	}{
		{
			name:   "completed",
			status: http.StatusOK,
			body:   `{"payment": {"id": "P1", "status": "COMPLETED", "receipt_url": "https://receipt/P1", "order_id": "O1"}}`,
		},
		{
			name:       "declined",
			status:     http.StatusPaymentRequired,
			body:       `{"errors": [{"category": "PAYMENT_METHOD_ERROR", "code": "GENERIC_DECLINE", "detail": "Authorization error"}]}`,
			wantErr:    repository.ErrCardDeclined,
			wantDetail: "GENERIC_DECLINE",
		},
		{
			name:    "unknown order",
			status:  http.StatusNotFound,
			body:    `{"errors": [{"category": "INVALID_REQUEST_ERROR", "code": "NOT_FOUND"}]}`,
			wantErr: repository.ErrOrderNotFound,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"errors": [{"category": "API_ERROR", "code": "INTERNAL_SERVER_ERROR", "detail": "boom"}]}`,
			wantDetail: "INTERNAL_SERVER_ERROR: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "L1", func(w http.ResponseWriter, r *http.Request) {
				var req createPaymentRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
					return
				}
				if req.SourceID != "cnon:card-nonce-ok" || req.AmountMoney.Amount != 2600 || req.AmountMoney.Currency != "USD" {
					t.Errorf("unexpected request: %+v", req)
				}
				if req.IdempotencyKey == "" || req.LocationID != "L1" || req.OrderID != "O1" {
					t.Errorf("unexpected request: %+v", req)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := c.CreatePayment(context.Background(), models.CreatePaymentRequest{
				SourceID:    "cnon:card-nonce-ok",
				OrderID:     "O1",
				AmountMoney: 2600,
			})

			if tt.status == http.StatusOK {
				if err != nil {
					t.Fatalf("CreatePayment() unexpected error: %v", err)
				}
				if resp.PaymentID != "P1" || resp.ReceiptURL != "https://receipt/P1" {
					t.Errorf("unexpected response: %+v", resp)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && errors.Is(err, repository.ErrCardDeclined) {
				t.Errorf("server error must not read as a decline: %v", err)
			}
			if tt.wantDetail != "" && !strings.Contains(err.Error(), tt.wantDetail) {
				t.Errorf("error %q missing %q", err.Error(), tt.wantDetail)
			}
		})
	}
}
