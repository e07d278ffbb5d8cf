package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/academiace/rolesync/internal/catalog/domain"
	obsmetrics "github.com/academiace/rolesync/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config configures the WooCommerce REST client.
type Config struct {
	BaseURL string
	Key     string
	Secret  string
	Timeout time.Duration
}

// Client reads orders and products from the WooCommerce REST API v3.
// Credentials travel as basic auth on every request and are never logged.
type Client struct {
	baseURL string
	key     string
	secret  string
	http    *http.Client
	metrics *obsmetrics.Metrics
	tracer  trace.Tracer
}

func New(cfg Config, m *obsmetrics.Metrics) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("woocommerce base url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		key:     cfg.Key,
		secret:  cfg.Secret,
		http:    &http.Client{Timeout: timeout},
		metrics: m,
		tracer:  otel.Tracer("rolesync/woocommerce"),
	}, nil
}

type orderResponse struct {
	ID      json.Number `json:"id"`
	Billing struct {
		Email string `json:"email"`
	} `json:"billing"`
	LineItems []struct {
		ProductID int64 `json:"product_id"`
	} `json:"line_items"`
}

type productResponse struct {
	ID   json.Number `json:"id"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

// FetchOrder loads a single order. A 404 maps to ErrOrderNotFound; any other
// non-2xx status or transport failure maps to a TransientError.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidOrderID
	}

	var raw orderResponse
	status, err := c.get(ctx, "orders", fmt.Sprintf("/wp-json/wc/v3/orders/%s", orderID), &raw)
	if err != nil {
		return domain.Order{}, err
	}
	if status == http.StatusNotFound {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if status < 200 || status >= 300 {
		return domain.Order{}, &domain.TransientError{Op: "fetch_order", StatusCode: status}
	}

	order := domain.Order{
		ID:         orderID,
		BuyerEmail: raw.Billing.Email,
		LineItems:  make([]domain.LineItem, 0, len(raw.LineItems)),
	}
	for _, item := range raw.LineItems {
		order.LineItems = append(order.LineItems, domain.LineItem{ProductID: item.ProductID})
	}
	return order, nil
}

// FetchProductTags loads the tag names attached to a product. Any non-2xx
// status maps to a TransientError; tags of an unknown product are not
// distinguishable from a misconfigured catalog, so there is no not-found case.
func (c *Client) FetchProductTags(ctx context.Context, productID int64) ([]string, error) {
	var raw productResponse
	status, err := c.get(ctx, "products", "/wp-json/wc/v3/products/"+strconv.FormatInt(productID, 10), &raw)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &domain.TransientError{Op: "fetch_product", StatusCode: status}
	}

	tags := make([]string, 0, len(raw.Tags))
	for _, tag := range raw.Tags {
		tags = append(tags, tag.Name)
	}
	return tags, nil
}

// get performs exactly one round trip and decodes 2xx bodies into out.
func (c *Client) get(ctx context.Context, endpoint, path string, out any) (int, error) {
	ctx, span := c.tracer.Start(ctx, "woocommerce."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("endpoint", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, &domain.TransientError{Op: "fetch_" + endpoint, Err: err}
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		c.metrics.RecordCatalogRequest(ctx, endpoint, 0)
		return 0, &domain.TransientError{Op: "fetch_" + endpoint, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("status_code", resp.StatusCode))
	c.metrics.RecordCatalogRequest(ctx, endpoint, resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.SetStatus(codes.Error, "decode failed")
			return resp.StatusCode, &domain.TransientError{Op: "decode_" + endpoint, Err: err}
		}
	}
	return resp.StatusCode, nil
}
