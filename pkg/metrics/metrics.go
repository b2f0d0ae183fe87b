// Package metrics provides the centralized Prometheus metrics reference
// for the sweeper. All metrics are defined in their respective packages
// (strapi, shopify, purge) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the sweeper.
// All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Content API Metrics (pkg/strapi):
//   - storesweep_strapi_requests_total{operation, status} (Counter): requests by operation (list_orders, delete_order) and HTTP status
//   - storesweep_strapi_request_duration_seconds{operation} (Histogram): request duration by operation
//   - storesweep_strapi_errors_total{class} (Counter): errors by class (client, server, network)
//
// Commerce Platform Metrics (pkg/shopify):
//   - storesweep_shopify_requests_total{status} (Counter): delete requests by HTTP status
//   - storesweep_shopify_request_duration_seconds (Histogram): delete request duration
//
// Sweep Metrics (pkg/purge):
//   - storesweep_records_processed_total (Counter): records whose deletion was attempted
//   - storesweep_pages_total{result} (Counter): page tasks by result (ok, fetch_failed)
//   - storesweep_deletes_total{system, outcome} (Counter): delete calls by system (primary, secondary) and outcome (ok, failed)
//
// Example Prometheus Queries:
//
//   # Share of delete calls that failed transport-level
//   sum(rate(storesweep_deletes_total{outcome="failed"}[5m])) /
//   sum(rate(storesweep_deletes_total[5m]))
//
//   # Page fetch failure rate
//   rate(storesweep_pages_total{result="fetch_failed"}[5m])
//
//   # P95 listing latency
//   histogram_quantile(0.95, rate(storesweep_strapi_request_duration_seconds_bucket{operation="list_orders"}[5m]))
