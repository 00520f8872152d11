package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the dress-up service
type Metrics struct {
	registry *prometheus.Registry

	Toggles           *prometheus.CounterVec
	ItemsShown        *prometheus.CounterVec
	ItemsHidden       *prometheus.CounterVec
	LoadFailures      *prometheus.CounterVec
	ItemsLoaded       *prometheus.GaugeVec
	UnknownCategories prometheus.Counter
	ActiveSessions    prometheus.Gauge
}

// New creates the collectors and registers them on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dressup",
			Name:      "toggles_total",
			Help:      "Item toggles handled, by category.",
		}, []string{"category"}),
		ItemsShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dressup",
			Name:      "items_shown_total",
			Help:      "Items that became visible, by category.",
		}, []string{"category"}),
		ItemsHidden: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dressup",
			Name:      "items_hidden_total",
			Help:      "Items that became hidden, by category.",
		}, []string{"category"}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dressup",
			Name:      "category_load_failures_total",
			Help:      "Category files that could not be loaded.",
		}, []string{"category"}),
		ItemsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dressup",
			Name:      "category_items",
			Help:      "Items loaded per category.",
		}, []string{"category"}),
		UnknownCategories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dressup",
			Name:      "unknown_category_lookups_total",
			Help:      "Stacking order lookups for categories missing from the registry.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dressup",
			Name:      "sessions_active",
			Help:      "Dress-up sessions currently held in memory.",
		}),
	}

	m.registry.MustRegister(
		m.Toggles,
		m.ItemsShown,
		m.ItemsHidden,
		m.LoadFailures,
		m.ItemsLoaded,
		m.UnknownCategories,
		m.ActiveSessions,
	)
	return m
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
