// Package metrics exposes Prometheus instrumentation for the HTTP server and
// the claims pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors behind a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	documentsIngested    prometheus.Counter
	classificationsTotal *prometheus.CounterVec
	chatRepliesTotal     *prometheus.CounterVec
	estimatesTotal       *prometheus.CounterVec
}

// New creates the metric set for the given service name.
func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimpilot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "claimpilot",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "claimpilot",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	documentsIngested := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "claimpilot",
			Subsystem: "claims",
			Name:      "documents_ingested_total",
			Help:      "Total uploaded documents processed by the pipeline.",
		},
	)
	classificationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimpilot",
			Subsystem: "claims",
			Name:      "classifications_total",
			Help:      "Total document labels emitted by the classifier.",
		},
		[]string{"label"},
	)
	chatRepliesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimpilot",
			Subsystem: "assist",
			Name:      "chat_replies_total",
			Help:      "Total chat replies by source.",
		},
		[]string{"source"},
	)
	estimatesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimpilot",
			Subsystem: "assist",
			Name:      "estimates_total",
			Help:      "Total payout estimates by source.",
		},
		[]string{"source"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		documentsIngested,
		classificationsTotal,
		chatRepliesTotal,
		estimatesTotal,
	)

	return &Metrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		documentsIngested:    documentsIngested,
		classificationsTotal: classificationsTotal,
		chatRepliesTotal:     chatRepliesTotal,
		estimatesTotal:       estimatesTotal,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware instruments every request.
func (m *Metrics) Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			m.requestInFlight.Inc()
			defer m.requestInFlight.Dec()

			next.ServeHTTP(recorder, r)

			m.requestTotal.WithLabelValues(service, r.Method, strconv.Itoa(recorder.statusCode)).Inc()
			m.requestDuration.WithLabelValues(service, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// RecordIngestion counts processed documents and emitted labels.
func (m *Metrics) RecordIngestion(documents int, labels []string) {
	m.documentsIngested.Add(float64(documents))
	for _, l := range labels {
		m.classificationsTotal.WithLabelValues(l).Inc()
	}
}

// RecordChatReply counts a chat reply by source.
func (m *Metrics) RecordChatReply(source string) {
	m.chatRepliesTotal.WithLabelValues(source).Inc()
}

// RecordEstimate counts an estimate by source.
func (m *Metrics) RecordEstimate(source string) {
	m.estimatesTotal.WithLabelValues(source).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
