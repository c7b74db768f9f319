// File: internal/observability/metrics.go
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API server.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SQLQueriesTotal     *prometheus.CounterVec
	TranslationsTotal   *prometheus.CounterVec
	UpstreamDuration    *prometheus.HistogramVec
}

// NewMetrics registers all collectors against the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxai_http_requests_total",
			Help: "HTTP requests processed, partitioned by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxai_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SQLQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxai_sql_queries_total",
			Help: "SQL queries executed against user databases, by outcome.",
		}, []string{"outcome"}),
		TranslationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxai_sql_translations_total",
			Help: "Natural-language to SQL conversions, by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxai_upstream_request_duration_seconds",
			Help:    "Latency of calls to the inference services.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}
}

// ObserveUpstream records the latency of one inference-service round trip.
// Satisfies ai.Observer.
func (m *Metrics) ObserveUpstream(service string, elapsed time.Duration) {
	m.UpstreamDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

// ObserveSQLQuery records one executed query.
func (m *Metrics) ObserveSQLQuery(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.SQLQueriesTotal.WithLabelValues(outcome).Inc()
}

// ObserveTranslation records one NL-to-SQL conversion.
func (m *Metrics) ObserveTranslation(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.TranslationsTotal.WithLabelValues(outcome).Inc()
}
