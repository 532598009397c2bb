package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

// New registers the account collectors plus the Go runtime and process
// collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quickchat",
		Name:      "account_operations_total",
		Help:      "Account operations handled, by operation and outcome.",
	}, []string{"operation", "outcome"})

	reg.MustRegister(
		ops,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{registry: reg, operations: ops}
}

// Record counts one operation. A nil receiver is a no-op.
func (m *Metrics) Record(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
