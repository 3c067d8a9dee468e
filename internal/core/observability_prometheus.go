package core

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sanctuary/pkg/domain"
)

// PrometheusMetrics records service operations and housing capacity as
// Prometheus collectors registered on the supplied registerer.
type PrometheusMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	capacityTotal     *prometheus.GaugeVec
	capacityAvailable *prometheus.GaugeVec
	occupants         *prometheus.GaugeVec
}

// NewPrometheusMetrics creates and registers the sanctuary collectors.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is required")
	}
	m := &PrometheusMetrics{}
	m.initMetrics()
	if err := reg.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PrometheusMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sanctuary_operations_total",
			Help: "Total number of sanctuary operations",
		},
		[]string{"operation", "status"}, // status: success, error
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sanctuary_operation_duration_seconds",
			Help:    "Time taken to apply a sanctuary operation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		},
		[]string{"operation"},
	)

	m.capacityTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sanctuary_housing_capacity_total",
			Help: "Total capacity of a housing unit",
		},
		[]string{"housing", "kind"},
	)

	m.capacityAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sanctuary_housing_capacity_available",
			Help: "Remaining capacity of a housing unit",
		},
		[]string{"housing", "kind"},
	)

	m.occupants = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sanctuary_housing_occupants",
			Help: "Number of animals in a housing unit",
		},
		[]string{"housing", "kind"},
	)
}

// Describe implements prometheus.Collector.
func (m *PrometheusMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.operationDuration.Describe(ch)
	m.capacityTotal.Describe(ch)
	m.capacityAvailable.Describe(ch)
	m.occupants.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *PrometheusMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.operationDuration.Collect(ch)
	m.capacityTotal.Collect(ch)
	m.capacityAvailable.Collect(ch)
	m.occupants.Collect(ch)
}

// Observe implements MetricsRecorder.
func (m *PrometheusMetrics) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	status := string(AuditStatusError)
	if success {
		status = string(AuditStatusSuccess)
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveCapacity implements CapacityObserver.
func (m *PrometheusMetrics) ObserveCapacity(view domain.HousingView) {
	kind := string(view.Entity)
	m.capacityTotal.WithLabelValues(view.Name, kind).Set(float64(view.TotalCapacity))
	m.capacityAvailable.WithLabelValues(view.Name, kind).Set(float64(view.AvailableCapacity))
	m.occupants.WithLabelValues(view.Name, kind).Set(float64(len(view.Occupants)))
}

// MultiMetricsRecorder fans observations out to several recorders.
type MultiMetricsRecorder []MetricsRecorder

// Observe implements MetricsRecorder.
func (mr MultiMetricsRecorder) Observe(ctx context.Context, operation string, success bool, duration time.Duration) {
	for _, r := range mr {
		r.Observe(ctx, operation, success, duration)
	}
}

// ObserveCapacity forwards to every recorder that tracks capacity.
func (mr MultiMetricsRecorder) ObserveCapacity(view domain.HousingView) {
	for _, r := range mr {
		if observer, ok := r.(CapacityObserver); ok {
			observer.ObserveCapacity(view)
		}
	}
}
