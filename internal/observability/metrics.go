// Package observability holds the Prometheus metrics of the map server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and gauges updated by the controller.
type Metrics struct {
	Events         *prometheus.CounterVec // labels: type, outcome={applied,ignored,rejected}
	RecordsTotal   prometheus.Gauge
	RecordsVisible prometheus.Gauge
	ActiveRegions  prometheus.Gauge
	FilterDuration prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sftrees",
			Name:      "events_total",
			Help:      "UI events processed by the controller.",
		}, []string{"type", "outcome"}),
		RecordsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sftrees",
			Name:      "records_loaded",
			Help:      "Tree records loaded at startup.",
		}),
		RecordsVisible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sftrees",
			Name:      "records_visible",
			Help:      "Tree records visible for the current filter state.",
		}),
		ActiveRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sftrees",
			Name:      "regions_active",
			Help:      "Regions currently restricting visible records.",
		}),
		FilterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sftrees",
			Name:      "filter_duration_seconds",
			Help:      "Duration of one filter pipeline evaluation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}

	reg.MustRegister(
		m.Events,
		m.RecordsTotal,
		m.RecordsVisible,
		m.ActiveRegions,
		m.FilterDuration,
	)

	return m
}
