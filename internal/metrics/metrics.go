// Package metrics exposes the service counters over a private Prometheus
// registry. Only counters live here; anything fancier belongs in an
// external monitoring stack.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RouteLabel  = "route"
	MethodLabel = "method"
	CodeLabel   = "code"
)

type Metrics struct {
	registry *prometheus.Registry

	EventsIngested prometheus.Counter
	IngestedBytes  prometheus.Counter
	Requests       *prometheus.CounterVec
	RateLimited    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		EventsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventtracker_events_ingested_total",
			Help: "The total number of events accepted for storage",
		}),
		IngestedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventtracker_ingested_payload_bytes_total",
			Help: "Total payload bytes across all accepted events",
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventtracker_http_requests_total",
			Help: "HTTP request counts by route, method and status code",
		}, []string{RouteLabel, MethodLabel, CodeLabel}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventtracker_rate_limited_total",
			Help: "The total number of requests rejected by the rate limiter",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// IncRequest records one completed HTTP request against the matched route
// pattern.
func (m *Metrics) IncRequest(route, method string, code int) {
	m.Requests.With(prometheus.Labels{
		RouteLabel:  route,
		MethodLabel: method,
		CodeLabel:   strconv.Itoa(code),
	}).Inc()
}
