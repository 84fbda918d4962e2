// Package monitoring exposes catalog and HTTP activity as Prometheus metrics
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alchemorsel/recipebook/internal/ports/outbound"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "recipebook"

var _ outbound.MetricsRecorder = (*MetricsCollector)(nil)

// MetricsCollector handles Prometheus metrics collection.
// Each collector owns its registry so several can coexist in one process.
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Catalog metrics
	queriesTotal        *prometheus.CounterVec
	queryResults        *prometheus.HistogramVec
	recipesAddedTotal   prometheus.Counter
	recordsSkippedTotal prometheus.Counter
	catalogRecipes      prometheus.Gauge
	reloadsTotal        *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		// HTTP metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Catalog metrics
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_queries_total",
				Help:      "Total number of catalog queries by operation",
			},
			[]string{"operation"},
		),
		queryResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "catalog_query_results",
				Help:      "Number of recipes returned per query",
				Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
			},
			[]string{"operation"},
		),
		recipesAddedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_recipes_added_total",
				Help:      "Total number of recipes added",
			},
		),
		recordsSkippedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_records_skipped_total",
				Help:      "Total number of malformed records skipped during load",
			},
		),
		catalogRecipes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_recipes",
				Help:      "Current number of recipes in the catalog",
			},
		),
		reloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of file-triggered reloads",
			},
			[]string{"status"},
		),
	}
}

// QueryExecuted counts a query and its result size
func (m *MetricsCollector) QueryExecuted(operation string, results int) {
	m.queriesTotal.WithLabelValues(operation).Inc()
	m.queryResults.WithLabelValues(operation).Observe(float64(results))
}

// RecipeAdded counts a successful add
func (m *MetricsCollector) RecipeAdded() {
	m.recipesAddedTotal.Inc()
}

// RecordsSkipped counts malformed records dropped during a load
func (m *MetricsCollector) RecordsSkipped(n int) {
	m.recordsSkippedTotal.Add(float64(n))
}

// CatalogSize sets the current catalog size
func (m *MetricsCollector) CatalogSize(n int) {
	m.catalogRecipes.Set(float64(n))
}

// ReloadCompleted counts a file-triggered reload
func (m *MetricsCollector) ReloadCompleted(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reloadsTotal.WithLabelValues(status).Inc()
}

// HTTPMiddleware records request counts and latency keyed by the chi route pattern
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Registry returns the collector's registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(m.logger),
	})
}
