// Package metrics holds the Prometheus collectors of the backoffice client.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_http_client_requests_total",
		Help: "Total number of backend requests issued, by status code and method.",
	}, []string{"code", "method"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "absensi_http_client_request_duration_seconds",
		Help:    "Duration of backend requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	HTTPErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_http_client_errors_total",
		Help: "Total number of failed backend calls, by failure kind.",
	}, []string{"kind"})

	PageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_page_fetches_total",
		Help: "Total number of table pages fetched, by resource.",
	}, []string{"resource"})

	PageFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_page_fetch_errors_total",
		Help: "Total number of failed table page fetches, by resource.",
	}, []string{"resource"})

	MockRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "absensi_mock_requests_total",
		Help: "Total number of requests served by the mock backend.",
	}, []string{"code", "method"})
)

// InstrumentRoundTripper counts and times the requests going through next.
func InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(HTTPRequests,
		promhttp.InstrumentRoundTripperDuration(HTTPDuration, next),
	)
}

// InstrumentHandler counts the requests served by next.
func InstrumentHandler(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(MockRequests, next)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
