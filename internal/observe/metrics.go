package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quartzmill/crashgate/internal/event"
	"github.com/quartzmill/crashgate/internal/router"
)

// Metrics counts accepted events on a private Prometheus registry.
type Metrics struct {
	registry    *prometheus.Registry
	eventsTotal *prometheus.CounterVec
}

// NewMetrics creates a Metrics observer with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	eventsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crashgate",
		Name:      "events_total",
		Help:      "Total accepted events by severity.",
	}, []string{"severity"})

	reg.MustRegister(eventsTotal)

	return &Metrics{
		registry:    reg,
		eventsTotal: eventsTotal,
	}
}

// Observe counts one accepted event. Pass the method value to
// Router.Subscribe.
func (m *Metrics) Observe(ev event.Event) {
	m.eventsTotal.WithLabelValues(ev.Severity.String()).Inc()
}

// BindRouter exposes the router's discard and capture-failure counters
// through the registry. Call at most once per router.
func (m *Metrics) BindRouter(r *router.Router) {
	discarded := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "crashgate",
		Name:      "events_discarded_total",
		Help:      "Events discarded below the configured threshold.",
	}, func() float64 {
		return float64(r.Stats().Discarded)
	})

	captureFailures := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "crashgate",
		Name:      "capture_failures_total",
		Help:      "Transport submissions rejected by the collector client.",
	}, func() float64 {
		return float64(r.Stats().CaptureFailures)
	})

	m.registry.MustRegister(discarded, captureFailures)
}

// Handler serves the registry in Prometheus text format, for hosts
// that mount a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
