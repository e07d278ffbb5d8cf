package woocommerce

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/academiace/rolesync/internal/catalog/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL: server.URL,
		Key:     "ck_test",
		Secret:  "cs_test",
		Timeout: 2 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestFetchOrder(t *testing.T) {
	var gotPath, gotUser, gotPass string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 123,
			"billing": {"email": "buyer@example.com"},
			"line_items": [{"product_id": 11}, {"product_id": 12}]
		}`))
	}))

	order, err := client.FetchOrder(context.Background(), "123")
	if err != nil {
		t.Fatalf("fetch order: %v", err)
	}
	if gotPath != "/wp-json/wc/v3/orders/123" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUser != "ck_test" || gotPass != "cs_test" {
		t.Fatalf("expected basic auth credentials, got %q/%q", gotUser, gotPass)
	}
	if order.ID != "123" {
		t.Fatalf("expected order id 123, got %q", order.ID)
	}
	if order.BuyerEmail != "buyer@example.com" {
		t.Fatalf("unexpected buyer email %q", order.BuyerEmail)
	}
	if len(order.LineItems) != 2 || order.LineItems[0].ProductID != 11 || order.LineItems[1].ProductID != 12 {
		t.Fatalf("unexpected line items %+v", order.LineItems)
	}
}

func TestFetchOrderNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"woocommerce_rest_shop_order_invalid_id"}`, http.StatusNotFound)
	}))

	_, err := client.FetchOrder(context.Background(), "999")
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestFetchOrderTransientStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	_, err := client.FetchOrder(context.Background(), "123")
	if !domain.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	var transient *domain.TransientError
	if !errors.As(err, &transient) || transient.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502 on transient error, got %+v", transient)
	}
}

func TestFetchOrderEmptyID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected for empty order id")
	}))

	_, err := client.FetchOrder(context.Background(), "  ")
	if !errors.Is(err, domain.ErrInvalidOrderID) {
		t.Fatalf("expected ErrInvalidOrderID, got %v", err)
	}
}

func TestFetchProductTags(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/products/11" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 11, "tags": [{"name": "Club ACE"}, {"name": "Mentoria"}]}`))
	}))

	tags, err := client.FetchProductTags(context.Background(), 11)
	if err != nil {
		t.Fatalf("fetch product tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "Club ACE" || tags[1] != "Mentoria" {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestFetchProductTagsTransient(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	// Product lookups have no user-correctable not-found case; every non-2xx
	// is transient to the resolver.
	_, err := client.FetchProductTags(context.Background(), 42)
	if !domain.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestFetchOrderContextCanceled(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchOrder(ctx, "123")
	if !domain.IsTransient(err) {
		t.Fatalf("expected transient error on timeout, got %v", err)
	}
}
