// Package metrics exposes soak run activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pomai_soak"

// Recorder counts soak operations on its own registry so that several runs
// in one process (tests) never collide on the default registerer.
type Recorder struct {
	registry   *prometheus.Registry
	ops        *prometheus.CounterVec
	hits       prometheus.Counter
	getLatency prometheus.Histogram
	canaryPct  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Commands issued, by kind.",
		}, []string{"op"}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "get_hits_total",
			Help:      "GET replies that were not a null bulk string.",
		}),
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "get_latency_seconds",
			Help:      "GET round-trip latency.",
			Buckets:   prometheus.ExponentialBuckets(10e-6, 2, 16),
		}),
		canaryPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "canary_pct",
			Help:      "Last announced POLICY.CANARY_PCT value.",
		}),
	}

	r.registry.MustRegister(r.ops, r.hits, r.getLatency, r.canaryPct)

	return r
}

func (r *Recorder) ObserveGet(latency time.Duration, hit bool) {
	r.ops.WithLabelValues("get").Inc()
	r.getLatency.Observe(latency.Seconds())
	if hit {
		r.hits.Inc()
	}
}

func (r *Recorder) ObserveSet() {
	r.ops.WithLabelValues("set").Inc()
}

func (r *Recorder) ObserveCanary(pct uint64) {
	r.ops.WithLabelValues("config").Inc()
	r.canaryPct.Set(float64(pct))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
