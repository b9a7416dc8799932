package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rshade/smartcarbon/internal/stage"
)

// Metrics are the Prometheus series the server exports.
type Metrics struct {
	stageEmission *prometheus.GaugeVec
	totalEmission prometheus.Gauge
	predictions   *prometheus.CounterVec
}

// NewMetrics registers with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers with registerer; nil skips registration.
func NewMetricsWithRegistry(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageEmission: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "smartcarbon_stage_emission_kg",
			Help: "Current predicted emission per stage in kgCO2e",
		}, []string{"stage"}),
		totalEmission: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartcarbon_total_emission_kg",
			Help: "Sum of all stage emissions in kgCO2e",
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartcarbon_predictions_total",
			Help: "Prediction requests by stage and outcome",
		}, []string{"stage", "status"}),
	}

	if registerer != nil {
		registerer.MustRegister(m.stageEmission)
		registerer.MustRegister(m.totalEmission)
		registerer.MustRegister(m.predictions)
	}
	return m
}

// Observe sets the gauges from a store snapshot.
func (m *Metrics) Observe(values map[stage.Stage]float64) {
	total := 0.0
	for _, s := range stage.All() {
		v := values[s]
		m.stageEmission.WithLabelValues(s.String()).Set(v)
		total += v
	}
	m.totalEmission.Set(total)
}

// CountPrediction records one prediction attempt.
func (m *Metrics) CountPrediction(s stage.Stage, status string) {
	m.predictions.WithLabelValues(s.String(), status).Inc()
}
