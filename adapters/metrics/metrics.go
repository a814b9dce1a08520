// Package metrics provides Prometheus metrics collection for the
// federation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
)

// Collector holds all Prometheus metrics for the service.
type Collector struct {
	// Engine metrics
	DocumentsTransformed prometheus.Counter
	TransformDuration    prometheus.Histogram
	SlotMutations        *prometheus.CounterVec

	// Rule file metrics
	RuleReloads      prometheus.Counter
	RuleReloadErrors prometheus.Counter
	ActiveRules      prometheus.Gauge

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a new metrics collector with all metrics registered.
func New() *Collector {
	return &Collector{
		DocumentsTransformed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "federation",
				Name:      "documents_transformed_total",
				Help:      "Total number of documents transformed",
			},
		),
		TransformDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "federation",
				Name:      "transform_duration_seconds",
				Help:      "Single-document transform duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
		SlotMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "federation",
				Name:      "slot_mutations_total",
				Help:      "Total number of document slots written, per rule",
			},
			[]string{"rule_id"},
		),
		RuleReloads: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "federation",
				Name:      "rule_reloads_total",
				Help:      "Total number of successful rule file reloads",
			},
		),
		RuleReloadErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "federation",
				Name:      "rule_reload_errors_total",
				Help:      "Total number of rejected rule file reloads",
			},
		),
		ActiveRules: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "federation",
				Name:      "active_rules",
				Help:      "Number of rules in the active snapshot",
			},
		),
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "federation",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "federation",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path", "status"},
		),
	}
}

// DocumentTransformed implements ports.TransformMetrics.
func (c *Collector) DocumentTransformed(d time.Duration) {
	c.DocumentsTransformed.Inc()
	c.TransformDuration.Observe(d.Seconds())
}

// SlotsMutated implements ports.TransformMetrics.
func (c *Collector) SlotsMutated(ruleID string, n int) {
	c.SlotMutations.WithLabelValues(ruleID).Add(float64(n))
}

// RulesReloaded implements ports.TransformMetrics.
func (c *Collector) RulesReloaded(ok bool) {
	if ok {
		c.RuleReloads.Inc()
	} else {
		c.RuleReloadErrors.Inc()
	}
}

// Ensure interface compliance.
var _ ports.TransformMetrics = (*Collector)(nil)
