// Package shopify provides the delete-by-id client for the secondary
// commerce platform.
package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/seedhaus/storesweep/pkg/logging"
)

// Prometheus metrics for secondary-system operations.
var (
	shopifyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storesweep_shopify_requests_total",
		Help: "Total Shopify requests by status",
	}, []string{"status"})

	shopifyRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storesweep_shopify_request_duration_seconds",
		Help:    "Shopify request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL of the shop admin API, without a trailing slash.
	BaseURL string

	// AccessToken is sent as X-Shopify-Access-Token on every request.
	AccessToken string
}

// Client talks to the commerce platform.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new commerce platform client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: cfg,
		logger: logging.NewLogger("shopify-client"),
	}, nil
}

// DeleteOrder issues one authenticated DELETE for the given cart
// reference. The boolean reports transport-level completion only; the
// HTTP status code is recorded in metrics but not interpreted.
func (c *Client) DeleteOrder(ctx context.Context, id string) bool {
	startTime := time.Now()
	defer func() {
		shopifyRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	reqURL := fmt.Sprintf("%s/orders/%s.json", c.config.BaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("cart_reference", id).Msg("Shop delete request build failed")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		shopifyRequestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Warn().Err(err).Str("cart_reference", id).Msg("Shop delete call failed")
		return false
	}
	defer resp.Body.Close()

	shopifyRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug().
		Str("cart_reference", id).
		Int("status", resp.StatusCode).
		Msg("Shop delete call completed")

	return true
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
