package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoadLoaded    = "loaded"
	LoadEmpty     = "empty"
	LoadMalformed = "malformed"
	LoadFailed    = "error"
	LoadDiscarded = "discarded"
)

// Metrics holds the cart store's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry       *prometheus.Registry
	Mutations      *prometheus.CounterVec
	PersistWrites  *prometheus.CounterVec
	Loads          *prometheus.CounterVec
	PersistLatency prometheus.Histogram
	CartItems      prometheus.Gauge
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Cart mutations by operation and whether they changed the cart.",
	}, []string{"op", "changed"})
	persistWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_persist_writes_total",
		Help:      "Snapshot writes to the durable store by result.",
	}, []string{"result"})
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_loads_total",
		Help:      "Cart initialization outcomes.",
	}, []string{"outcome"})
	persistLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_persist_latency_seconds",
		Help:      "Latency of snapshot writes to the durable store.",
		Buckets:   prometheus.DefBuckets,
	})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_line_items",
		Help:      "Number of distinct line items currently in the cart.",
	})

	registry.MustRegister(
		mutations,
		persistWrites,
		loads,
		persistLatency,
		cartItems,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:       registry,
		Mutations:      mutations,
		PersistWrites:  persistWrites,
		Loads:          loads,
		PersistLatency: persistLatency,
		CartItems:      cartItems,
	}
}

func (m *Metrics) ObserveMutation(op string, changed bool, lineItems int) {
	if m == nil {
		return
	}
	flag := "false"
	if changed {
		flag = "true"
	}
	m.Mutations.WithLabelValues(op, flag).Inc()
	m.CartItems.Set(float64(lineItems))
}

func (m *Metrics) ObservePersist(err error, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PersistWrites.WithLabelValues(result).Inc()
	m.PersistLatency.Observe(took.Seconds())
}

func (m *Metrics) ObserveLoad(outcome string, lineItems int) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(outcome).Inc()
	m.CartItems.Set(float64(lineItems))
}

// NewServer builds the HTTP server exposing /metrics. The caller owns
// ListenAndServe and Shutdown.
func NewServer(port string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
