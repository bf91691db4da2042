// Package metrics exposes Prometheus collectors for a simulation run.
package metrics

import (
	"fmt"

	"github.com/nvandessel/leach/internal/leach"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "leach"

// Recorder holds the collectors for one run on a private registry, so
// repeated runs in one process never collide on the default registry.
type Recorder struct {
	registry *prometheus.Registry

	rounds       prometheus.Counter
	clusterheads prometheus.Counter
	eligible     prometheus.Counter
	roundElected prometheus.Histogram
	period       prometheus.Gauge
	probability  prometheus.Gauge
}

// NewRecorder creates and registers the run collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Rounds simulated.",
		}),
		clusterheads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusterheads_total",
			Help:      "Clusterhead elections across all rounds.",
		}),
		eligible: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eligible_total",
			Help:      "Node-rounds whose draw passed the admission threshold.",
		}),
		roundElected: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_clusterheads",
			Help:      "Clusterheads elected per round.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		period: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cooldown_period_rounds",
			Help:      "Truncated cooldown period 1/p of the run.",
		}),
		probability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admission_probability",
			Help:      "Configured admission probability p.",
		}),
	}

	r.registry.MustRegister(r.rounds, r.clusterheads, r.eligible, r.roundElected, r.period, r.probability)
	return r
}

// Observe records a finished history.
func (r *Recorder) Observe(h *leach.History) {
	r.period.Set(float64(h.Period()))
	r.probability.Set(h.Probability())

	for _, states := range h.All() {
		var elected, eligible int
		for _, st := range states {
			if st.Clusterhead {
				elected++
			}
			if st.Eligible {
				eligible++
			}
		}
		r.rounds.Inc()
		r.clusterheads.Add(float64(elected))
		r.eligible.Add(float64(eligible))
		r.roundElected.Observe(float64(elected))
	}
}

// Gatherer returns the registry backing the recorder.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for a node-exporter textfile collector directory.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
