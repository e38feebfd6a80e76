// Package metrics exposes store persistence outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rbroggi/hbnb/internal/core/model"
)

const namespace = "hbnb"

// StoreMetrics implements ports.StoreObserver.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	entities   *prometheus.GaugeVec
}

// NewStoreMetrics creates the store metrics and registers them on reg.
func NewStoreMetrics(reg prometheus.Registerer) (*StoreMetrics, error) {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Whole-document save and reload attempts by outcome.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of whole-document saves and reloads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities",
			Help:      "Entities held per kind after the last successful save or reload.",
		}, []string{"kind"}),
	}
	for _, c := range []prometheus.Collector{m.operations, m.duration, m.entities} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("error registering store metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveSave records a save attempt.
func (m *StoreMetrics) ObserveSave(counts map[model.Kind]int, took time.Duration, err error) {
	m.observe("save", counts, took, err)
}

// ObserveReload records a reload attempt.
func (m *StoreMetrics) ObserveReload(counts map[model.Kind]int, took time.Duration, err error) {
	m.observe("reload", counts, took, err)
}

func (m *StoreMetrics) observe(op string, counts map[model.Kind]int, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(took.Seconds())
	if err != nil || counts == nil {
		return
	}
	for _, kind := range model.Kinds() {
		m.entities.WithLabelValues(string(kind)).Set(float64(counts[kind]))
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
