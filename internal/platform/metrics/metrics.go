package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the admin gateway.
type Metrics struct {
	BackendRequests   *prometheus.CounterVec
	BackendLatency    *prometheus.HistogramVec
	BackendFailures   *prometheus.CounterVec
	AuthFailures      prometheus.Counter
	IdentityRechecks  prometheus.Counter
	FallbackServed    prometheus.Counter
	SupersededFetches prometheus.Counter
	StudioSelected    prometheus.Gauge
	ActiveScopedUsers prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		BackendRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studioadmin_backend_requests_total",
			Help: "Total backend fetches issued, by endpoint family",
		}, []string{"endpoint"}),
		BackendLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studioadmin_backend_latency_seconds",
			Help:    "Latency of backend fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		BackendFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studioadmin_backend_failures_total",
			Help: "Backend fetch failures by error kind",
		}, []string{"kind"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studioadmin_auth_failures_total",
			Help: "Total identity resolution failures",
		}),
		IdentityRechecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studioadmin_identity_rechecks_total",
			Help: "Total manual identity rechecks",
		}),
		FallbackServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studioadmin_studio_fallback_served_total",
			Help: "Times the placeholder studio list was served instead of backend data",
		}),
		SupersededFetches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "studioadmin_superseded_fetches_total",
			Help: "Scoped user fetches discarded because the selection changed mid-flight",
		}),
		StudioSelected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "studioadmin_studio_selected",
			Help: "1 when a studio selection is active, 0 otherwise",
		}),
		ActiveScopedUsers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "studioadmin_scoped_users",
			Help: "Size of the currently cached scoped user list",
		}),
	}
}
