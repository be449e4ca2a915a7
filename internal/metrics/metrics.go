// Package metrics exposes Prometheus collectors for the ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors, registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	expenseWrites      *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	settlements        prometheus.Counter
	simplifyTransfers  prometheus.Histogram
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		expenseWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "expense_writes_total",
			Help:      "Expense writes by operation.",
		}, []string{"op"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "share_validation_failures_total",
			Help:      "Rejected share sets by error code.",
		}, []string{"code"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "settlements_recorded_total",
			Help:      "Settlements recorded.",
		}),
		simplifyTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "simplify_transfers",
			Help:      "Transfers suggested per simplification.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.expenseWrites,
		m.validationFailures,
		m.settlements,
		m.simplifyTransfers,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request latency labelled with the chi route pattern
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// ExpenseWritten counts a create, update or delete
func (m *Metrics) ExpenseWritten(op string) {
	m.expenseWrites.WithLabelValues(op).Inc()
}

// ShareValidationFailed counts a rejected share set
func (m *Metrics) ShareValidationFailed(code string) {
	m.validationFailures.WithLabelValues(code).Inc()
}

// SettlementRecorded counts a recorded settlement
func (m *Metrics) SettlementRecorded() {
	m.settlements.Inc()
}

// Simplified observes how many transfers a simplification produced
func (m *Metrics) Simplified(transfers int) {
	m.simplifyTransfers.Observe(float64(transfers))
}
