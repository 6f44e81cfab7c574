package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts domain outcomes. A nil *Metrics is valid and counts nothing.
type Metrics struct {
	denials     *prometheus.CounterVec
	testResults *prometheus.CounterVec
	reports     *prometheus.CounterVec
}

// NewMetrics registers the domain counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aerocode",
			Name:      "denials_total",
			Help:      "Operations refused by a domain rule.",
		}, []string{"operation"}),
		testResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aerocode",
			Name:      "test_results_total",
			Help:      "Test results written to the ledger.",
		}, []string{"type", "result", "action"}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aerocode",
			Name:      "reports_total",
			Help:      "Report generation attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.denials, m.testResults, m.reports)
	return m
}

func (m *Metrics) denied(operation string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(operation).Inc()
}

func (m *Metrics) testResult(typ, result, action string) {
	if m == nil {
		return
	}
	m.testResults.WithLabelValues(typ, result, action).Inc()
}

func (m *Metrics) report(outcome string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(outcome).Inc()
}
