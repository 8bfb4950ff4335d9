package arbor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

/*
Metrics holds the Prometheus collectors a Pruner reports its progress
on.
*/
type Metrics struct {
	// Passes counts the passes over the tree
	Passes prometheus.Counter
	// Candidates counts the collapses evaluated
	Candidates prometheus.Counter
	// Adoptions counts the collapses kept
	Adoptions prometheus.Counter
	// Accuracy is the validation accuracy of the tree being pruned
	Accuracy prometheus.Gauge
}

// NewMetrics creates the pruning collectors and registers them on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "pruning",
			Name:      "passes_total",
			Help:      "Total passes over trees looking for a node to collapse",
		}),
		Candidates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "pruning",
			Name:      "candidates_total",
			Help:      "Total node collapses evaluated against validation data",
		}),
		Adoptions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "arbor",
			Subsystem: "pruning",
			Name:      "adoptions_total",
			Help:      "Total node collapses kept because they improved accuracy",
		}),
		Accuracy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "arbor",
			Subsystem: "pruning",
			Name:      "accuracy",
			Help:      "Validation accuracy of the tree being pruned",
		}),
	}
}
