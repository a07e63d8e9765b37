package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Simulation metrics.
	RecoveriesStarted   prometheus.Counter
	RecoveriesCompleted prometheus.Counter
	RecoveriesFailed    prometheus.Counter
	TransfersStarted    prometheus.Counter
	TransfersCompleted  prometheus.Counter
	TransfersFailed     prometheus.Counter
	ActiveSimulations   prometheus.Gauge

	// Request metrics.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// WebSocket metrics.
	WSConnections prometheus.Gauge
	WSMessages    prometheus.Counter

	// Cache metrics.
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	reg *prometheus.Registry
}

// NewRegistry creates and registers all SyncSphere metrics on a fresh
// Prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		RecoveriesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_recoveries_started_total",
			Help: "Recovery sessions started.",
		}),
		RecoveriesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_recoveries_completed_total",
			Help: "Recovery sessions completed successfully.",
		}),
		RecoveriesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_recoveries_failed_total",
			Help: "Recovery sessions that ended in failure.",
		}),
		TransfersStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_transfers_started_total",
			Help: "Transfers started.",
		}),
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_transfers_completed_total",
			Help: "Transfers completed successfully.",
		}),
		TransfersFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_transfers_failed_total",
			Help: "Transfers that ended in failure.",
		}),
		ActiveSimulations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "syncsphere_active_simulations",
			Help: "Phase drivers currently registered.",
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "syncsphere_http_requests_total",
			Help: "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "syncsphere_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "syncsphere_websocket_connections",
			Help: "Open WebSocket connections.",
		}),
		WSMessages: factory.NewCounter(prometheus.CounterOpts{
			Name: "syncsphere_websocket_messages_total",
			Help: "Messages pushed over WebSocket.",
		}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "syncsphere_cache_hits_total",
			Help: "Cache hits by entity.",
		}, []string{"entity"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "syncsphere_cache_misses_total",
			Help: "Cache misses by entity.",
		}, []string{"entity"}),
		reg: reg,
	}
}

// Handler returns the HTTP handler serving this registry in
// Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
