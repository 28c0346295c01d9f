package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)

	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed.",
		},
	)

	SalesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sales_completed_total",
			Help:      "Sales accepted by the back-office, by payment method.",
		},
		[]string{"payment_method"},
	)

	SaleSubmissionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "sale_submission_failures_total",
			Help:      "Sales rejected by or not delivered to the back-office, by upstream status.",
		},
		[]string{"status"},
	)

	PostSettlementWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "post_settlement_warnings_total",
			Help:      "Loyalty follow-ups that failed after the sale was recorded.",
		},
		[]string{"operation"},
	)

	CheckoutsThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "checkouts_throttled_total",
			Help:      "Checkout attempts rejected by the per-register throttle.",
		},
	)

	SaleAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pos",
			Name:      "sale_amount_xof",
			Help:      "Grand total of completed sales.",
			Buckets:   prometheus.ExponentialBuckets(1000, 2.5, 10),
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped", slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped", slog.String("error", err.Error()))
	}
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware labels requests by the matched ServeMux pattern, so it must wrap the mux.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			pattern := r.Pattern
			if pattern == "" {
				pattern = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, pattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
