package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eadmin",
			Name:      "api_requests_total",
			Help:      "Requests sent to the reservations API by endpoint and status.",
		},
		[]string{"method", "endpoint", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eadmin",
			Name:      "api_request_duration_seconds",
			Help:      "Latency of reservations API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	apiRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eadmin",
			Name:      "api_retries_total",
			Help:      "Automatic retries of read-only queries.",
		},
		[]string{"endpoint"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eadmin",
			Name:      "query_cache_lookups_total",
			Help:      "Query cache lookups by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiRequestDuration, apiRetries, cacheLookups)
	})
}

// ObserveRequest records one API round trip. Status 0 means the request
// never got a response.
func ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	apiRequests.WithLabelValues(method, endpoint, label).Inc()
	apiRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// IncRetry counts an automatic retry of a query.
func IncRetry(endpoint string) {
	apiRetries.WithLabelValues(endpoint).Inc()
}

// IncCache counts a cache hit or miss.
func IncCache(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}
