// Package metrics exposes storefront counters in Prometheus format.
// All recording methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "redfragances"

// Metrics holds the registry and every storefront collector
type Metrics struct {
	registry *prometheus.Registry

	cartAdds        *prometheus.CounterVec
	checkouts       prometheus.Counter
	checkoutAmount  prometheus.Counter
	orderItems      prometheus.Histogram
	advisorReplies  *prometheus.CounterVec
	persistErrors   *prometheus.CounterVec
	catalogProducts prometheus.Gauge
}

// New registers the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cartAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_adds_total",
			Help:      "Cart additions by outcome (new line or merged into an existing line).",
		}, []string{"outcome"}),
		checkouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Orders placed.",
		}),
		checkoutAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_amount_total",
			Help:      "Sum of order totals.",
		}),
		orderItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_units",
			Help:      "Units per order.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
		advisorReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisor_replies_total",
			Help:      "Chat replies by outcome (answer or fallback).",
		}, []string{"outcome"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_errors_total",
			Help:      "Failed document loads and saves.",
		}, []string{"op", "key"}),
		catalogProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Products currently in the catalog.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cartAdds,
		m.checkouts,
		m.checkoutAmount,
		m.orderItems,
		m.advisorReplies,
		m.persistErrors,
		m.catalogProducts,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) CartAdd(merged bool) {
	if m == nil {
		return
	}
	outcome := "new_line"
	if merged {
		outcome = "merged"
	}
	m.cartAdds.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Checkout(total int64, units int) {
	if m == nil {
		return
	}
	m.checkouts.Inc()
	m.checkoutAmount.Add(float64(total))
	m.orderItems.Observe(float64(units))
}

func (m *Metrics) AdvisorReply(fallback bool) {
	if m == nil {
		return
	}
	outcome := "answer"
	if fallback {
		outcome = "fallback"
	}
	m.advisorReplies.WithLabelValues(outcome).Inc()
}

// PersistError matches repository.ErrorObserver.
func (m *Metrics) PersistError(op, key string) {
	if m == nil {
		return
	}
	m.persistErrors.WithLabelValues(op, key).Inc()
}

func (m *Metrics) CatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogProducts.Set(float64(n))
}
