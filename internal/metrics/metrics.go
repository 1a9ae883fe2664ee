// Package metrics records search activity as Prometheus metrics on a private
// registry, which the CLI can dump in text exposition format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/samcharles93/beamlab/internal/beam"
)

const namespace = "beamlab"

// Outcome labels for hypothesesTotal.
const (
	outcomeKept      = "kept"
	outcomeCompleted = "completed"
	outcomePruned    = "pruned"
)

// knownReasons bounds the reason label so a future Reason value cannot
// create unbounded series.
var knownReasons = map[beam.Reason]bool{
	beam.ReasonMaxSteps:     true,
	beam.ReasonMaxCompleted: true,
	beam.ReasonExhausted:    true,
}

// Collector is a beam.Observer backed by Prometheus metrics. It is safe for
// concurrent use.
type Collector struct {
	reg *prometheus.Registry

	steps        prometheus.Counter
	expanded     prometheus.Counter
	hypotheses   *prometheus.CounterVec
	stepDuration prometheus.Histogram
	frontier     prometheus.Gauge
	runs         *prometheus.CounterVec
	bestScore    prometheus.Gauge
}

// New registers the search metrics on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		reg: reg,
		steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "steps_total",
			Help:      "Expand and prune rounds executed.",
		}),
		expanded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates_total",
			Help:      "Candidates produced by expansion before pruning.",
		}),
		hypotheses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "hypotheses_total",
			Help:      "Hypotheses leaving a prune, by outcome.",
		}, []string{"outcome"}),
		stepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "step_duration_seconds",
			Help:      "Wall time of one expand and prune round.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		frontier: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "frontier_size",
			Help:      "Active hypotheses after the latest step.",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "runs_total",
			Help:      "Finished searches by termination reason.",
		}, []string{"reason"}),
		bestScore: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "best_normalized_score",
			Help:      "Length-normalized score of the best hypothesis of the latest run.",
		}),
	}
}

// Registry exposes the underlying registry, for tests and custom exporters.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// ObserveStep implements beam.Observer.
func (c *Collector) ObserveStep(_ int, res beam.StepResult, elapsed time.Duration) {
	c.steps.Inc()
	c.expanded.Add(float64(res.Expanded))
	c.hypotheses.WithLabelValues(outcomeKept).Add(float64(len(res.Frontier)))
	c.hypotheses.WithLabelValues(outcomeCompleted).Add(float64(len(res.Completed)))
	c.hypotheses.WithLabelValues(outcomePruned).Add(float64(len(res.Pruned)))
	c.stepDuration.Observe(elapsed.Seconds())
	c.frontier.Set(float64(len(res.Frontier)))
}

// ObserveResult implements beam.Observer.
func (c *Collector) ObserveResult(res beam.Result) {
	reason := string(res.Reason)
	if !knownReasons[res.Reason] {
		reason = "unknown"
	}
	c.runs.WithLabelValues(reason).Inc()
	if res.Best != nil {
		c.bestScore.Set(res.Best.Normalized)
	}
}

// WriteFile atomically writes every metric to path in the text exposition
// format, suitable for the node exporter's textfile collector.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
