package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	pipelineRequestsTotal *prometheus.CounterVec
	pipelineDuration      *prometheus.HistogramVec
	aiRequestsTotal       *prometheus.CounterVec
	aiRequestDuration     *prometheus.HistogramVec
	aiTokensTotal         *prometheus.CounterVec
	softFailuresTotal     *prometheus.CounterVec
	narrationsTotal       *prometheus.CounterVec
	capabilityAvailable   *prometheus.GaugeVec
}

// NewMetricsCollector creates a collector on its own registry, so several
// collectors can coexist in one process (tests, CLI + server).
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger,
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		pipelineRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfie_pipeline_requests_total",
				Help: "Total number of pipeline runs by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		pipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelfie_pipeline_duration_seconds",
				Help:    "End-to-end pipeline duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"kind"},
		),
		aiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Total number of generative model requests",
			},
			[]string{"provider", "model", "status"},
		),
		aiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "Generative model request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "model"},
		),
		aiTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_tokens_total",
				Help: "Tokens consumed, split by direction and whether the count was estimated",
			},
			[]string{"provider", "direction", "source"},
		),
		softFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfie_capability_soft_failures_total",
				Help: "Capability failures that were absorbed by a fallback",
			},
			[]string{"capability"},
		),
		narrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelfie_narrations_total",
				Help: "Narrations by the strategy that succeeded",
			},
			[]string{"strategy"},
		),
		capabilityAvailable: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shelfie_capability_available",
				Help: "1 when the capability was available at startup",
			},
			[]string{"capability"},
		),
	}
}

// HTTPMiddleware records request counts and latencies per chi route pattern
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, path, code).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, code).Observe(time.Since(start).Seconds())
	})
}

// PipelineCompleted records one orchestrator run. outcome is "success" or an error code.
func (m *MetricsCollector) PipelineCompleted(kind, outcome string, duration time.Duration) {
	m.pipelineRequestsTotal.WithLabelValues(kind, outcome).Inc()
	m.pipelineDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *MetricsCollector) AIRequest(provider, model, status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(provider, model, status).Inc()
	m.aiRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// AITokens adds token counts; estimated selects the "estimated" source label.
func (m *MetricsCollector) AITokens(provider string, input, output int, estimated bool) {
	source := "reported"
	if estimated {
		source = "estimated"
	}
	m.aiTokensTotal.WithLabelValues(provider, "input", source).Add(float64(input))
	m.aiTokensTotal.WithLabelValues(provider, "output", source).Add(float64(output))
}

func (m *MetricsCollector) SoftFailure(capability string) {
	m.softFailuresTotal.WithLabelValues(capability).Inc()
}

func (m *MetricsCollector) Narrated(strategy string) {
	m.narrationsTotal.WithLabelValues(strategy).Inc()
}

// SetCapability publishes a startup availability flag.
func (m *MetricsCollector) SetCapability(capability string, available bool) {
	value := 0.0
	if available {
		value = 1
	}
	m.capabilityAvailable.WithLabelValues(capability).Set(value)
}

// Registry exposes the underlying registry for tests.
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
