package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the order-core counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	OrdersPlaced     prometheus.Counter
	OrdersConfirmed  prometheus.Counter
	OrdersCancelled  prometheus.Counter
	SweeperCancelled prometheus.Counter
	PaymentCallbacks *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketcore_orders_placed_total",
			Help: "Orders successfully placed.",
		}),
		OrdersConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketcore_orders_confirmed_total",
			Help: "Orders confirmed through payment reconciliation.",
		}),
		OrdersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketcore_orders_cancelled_total",
			Help: "Orders cancelled by their owner.",
		}),
		SweeperCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketcore_sweeper_cancelled_total",
			Help: "Abandoned orders cancelled by the expiry sweeper.",
		}),
		PaymentCallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketcore_payment_callbacks_total",
			Help: "Payment callbacks by outcome.",
		}, []string{"outcome"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketcore_cache_hits_total",
			Help: "Read-through cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "marketcore_cache_misses_total",
			Help: "Read-through cache misses.",
		}),
	}
}

// Handler serves the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
