// Package strapi provides the client for the primary content API:
// authenticated paginated order listing and delete-by-id.
package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/seedhaus/storesweep/pkg/logging"
)

// Prometheus metrics for primary-system operations.
var (
	strapiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesweep_strapi_requests_total",
		Help: "Total Strapi requests by operation and status",
	}, []string{"operation", "status"})

	strapiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storesweep_strapi_request_duration_seconds",
		Help:    "Strapi request duration in seconds by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	strapiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesweep_strapi_errors_total",
		Help: "Total Strapi errors by class",
	}, []string{"class"})
)

// Operation labels for metrics.
const (
	opListOrders  = "list_orders"
	opDeleteOrder = "delete_order"
)

// Order is one record from the listing API. The cart reference links the
// order to its counterpart in the commerce platform; absence means there
// is nothing to delete there.
type Order struct {
	ID         int             `json:"id"`
	Attributes OrderAttributes `json:"attributes"`
}

// OrderAttributes holds the optional fields requested from the listing API.
type OrderAttributes struct {
	CartReference *string `json:"cartReference"`
}

// CartReference returns the linked commerce-platform identifier, if any.
func (o Order) CartReference() (string, bool) {
	if o.Attributes.CartReference == nil || *o.Attributes.CartReference == "" {
		return "", false
	}
	return *o.Attributes.CartReference, true
}

// Pagination is the listing API's pagination metadata. It is taken from
// the response as-is; pageCount == ceil(total/pageSize).
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta wraps the pagination block of a listing response.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// OrderPage is one page envelope of the order listing.
type OrderPage struct {
	Data []Order `json:"data"`
	Meta Meta    `json:"meta"`
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the content API, without a trailing slash.
	BaseURL string

	// Token is the bearer token for all requests.
	Token string

	// PageSize for listing requests (default 10).
	PageSize int
}

// Client talks to the content API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new content API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("token is required")
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: cfg,
		logger: logging.NewLogger("strapi-client"),
	}, nil
}

// orderQuery builds the filtered listing query: only the fields the sweep
// needs, pagination, and the content-state/locale filters.
func orderQuery(page, pageSize int) string {
	return fmt.Sprintf(
		"fields[0]=id&fields[1]=cartReference&pagination[pageSize]=%d&pagination[page]=%d&publicationState=preview&locale[0]=en",
		pageSize, page)
}

// FetchOrderPage fetches a single listing page. Any transport failure,
// non-200 status, or undecodable body is a hard error wrapping
// ErrFetchFailed; there is no retry.
func (c *Client) FetchOrderPage(ctx context.Context, page int) (*OrderPage, error) {
	startTime := time.Now()
	defer func() {
		strapiRequestDuration.WithLabelValues(opListOrders).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := fmt.Sprintf("%s/orders?%s", c.config.BaseURL, orderQuery(page, c.config.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		strapiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		strapiRequestsTotal.WithLabelValues(opListOrders, "network_error").Inc()
		return nil, fmt.Errorf("%w: page %d: %v", ErrFetchFailed, page, err)
	}
	defer resp.Body.Close()

	strapiRequestsTotal.WithLabelValues(opListOrders, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		class := classifyStatus(resp.StatusCode)
		strapiErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Int("page", page).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Order listing request error")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    resp.Status,
			Err:        ErrFetchFailed,
		}
	}

	var envelope OrderPage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode page %d: %v", ErrFetchFailed, page, err)
	}

	// A response without pagination metadata cannot drive the sweep.
	if envelope.Meta.Pagination.PageSize <= 0 {
		return nil, fmt.Errorf("%w: page %d: missing pagination metadata", ErrFetchFailed, page)
	}

	c.logger.Debug().
		Int("page", page).
		Int("records", len(envelope.Data)).
		Int("page_count", envelope.Meta.Pagination.PageCount).
		Msg("Fetched order page")

	return &envelope, nil
}

// DeleteOrder issues one authenticated DELETE for the given order id.
// The boolean reports transport-level completion only; the HTTP status
// code is recorded in metrics but not interpreted.
func (c *Client) DeleteOrder(ctx context.Context, id int) bool {
	startTime := time.Now()
	defer func() {
		strapiRequestDuration.WithLabelValues(opDeleteOrder).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := fmt.Sprintf("%s/order/%d", c.config.BaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		c.logger.Warn().Err(err).Int("order_id", id).Msg("Order delete request build failed")
		return false
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		strapiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		strapiRequestsTotal.WithLabelValues(opDeleteOrder, "network_error").Inc()
		c.logger.Warn().Err(err).Int("order_id", id).Msg("Order delete call failed")
		return false
	}
	defer resp.Body.Close()

	strapiRequestsTotal.WithLabelValues(opDeleteOrder, strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug().
		Int("order_id", id).
		Int("status", resp.StatusCode).
		Msg("Order delete call completed")

	return true
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
