// Package metrics provides the centralized Prometheus metrics reference for
// the CMR client. Metrics are defined in their respective packages (client,
// scroll) to maintain modularity and avoid circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the CMR client.
// All metrics are automatically registered via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - cmr_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - cmr_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - cmr_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Scroll Metrics (pkg/scroll):
//   - cmr_scroll_sessions_total (Counter): Scroll sessions established
//   - cmr_scroll_pages_total (Counter): Scroll pages retrieved
//   - cmr_scroll_stalls_total (Counter): Fetches aborted because pagination stalled
//   - cmr_scroll_releases_total{status} (Counter): Session releases by outcome (ok, error)
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(cmr_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(cmr_request_duration_seconds_bucket[5m]))
//
//   # Pages per Session
//   rate(cmr_scroll_pages_total[5m]) / rate(cmr_scroll_sessions_total[5m])
//
//   # Leaked Sessions (releases failing)
//   rate(cmr_scroll_releases_total{status="error"}[5m])
