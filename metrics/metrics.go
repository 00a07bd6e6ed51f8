// Package metrics exports catalog activity to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nrfta/go-catalog/strategy"
)

// Recorder implements strategy.Recorder on Prometheus collectors.
type Recorder struct {
	selections *prometheus.CounterVec
	active     *prometheus.GaugeVec
	size       prometheus.Gauge
	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	superseded prometheus.Counter
}

// NewRecorder registers the catalog metrics on reg. A nil reg returns a
// Recorder that records nothing.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{}
	}

	r := &Recorder{
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_strategy_selections_total",
			Help: "Strategy selections by chosen strategy.",
		}, []string{"strategy"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalog_strategy_active",
			Help: "1 for the active strategy, 0 otherwise.",
		}, []string{"strategy"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Product count seen by the last selection.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of filter and paginate calls in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_query_failures_total",
			Help: "Failed filter and paginate calls.",
		}, []string{"strategy"}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_superseded_results_total",
			Help: "Results discarded because a newer request was issued.",
		}),
	}

	reg.MustRegister(r.selections, r.active, r.size, r.duration, r.failures, r.superseded)
	return r
}

func (r *Recorder) Selected(kind strategy.Kind, count int) {
	if r == nil || r.selections == nil {
		return
	}
	r.selections.WithLabelValues(kind.String()).Inc()
	for _, k := range []strategy.Kind{strategy.InMemory, strategy.Remote} {
		v := 0.0
		if k == kind {
			v = 1
		}
		r.active.WithLabelValues(k.String()).Set(v)
	}
	r.size.Set(float64(count))
}

func (r *Recorder) Queried(kind strategy.Kind, elapsed time.Duration, err error) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
	if err != nil {
		r.failures.WithLabelValues(kind.String()).Inc()
	}
}

func (r *Recorder) Superseded() {
	if r == nil || r.superseded == nil {
		return
	}
	r.superseded.Inc()
}

var _ strategy.Recorder = (*Recorder)(nil)
