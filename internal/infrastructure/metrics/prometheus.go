// Package metrics expone métricas Prometheus del servicio: latencia HTTP y
// resultado de las llamadas al servicio de ML.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de una llamada al servicio de ML.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics agrupa los colectores sobre un registry propio (no el global).
// Todos los métodos aceptan receptor nil para que los tests puedan omitirlo.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	scoringCalls    *prometheus.CounterVec
	scoringDuration *prometheus.HistogramVec
}

// New registra los colectores del servicio y los de runtime de Go.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas por ruta y status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		scoringCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_calls_total",
			Help:      "Llamadas al servicio de ML por operación y resultado.",
		}, []string{"operation", "outcome"}),
		scoringDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_call_duration_seconds",
			Help:      "Latencia de las llamadas al servicio de ML.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.scoringCalls, m.scoringDuration,
	)
	return m
}

// Handler devuelve el handler HTTP para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry expone el registry (tests y colectores adicionales).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest registra una petición atendida.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveScoringCall registra una llamada a /predict o /explain.
func (m *Metrics) ObserveScoringCall(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.scoringCalls.WithLabelValues(operation, outcome).Inc()
	m.scoringDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
