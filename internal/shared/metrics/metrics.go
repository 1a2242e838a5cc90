package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000}

var (
	registry = prometheus.NewRegistry()

	validationStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "validation_started_total",
		Help: "Total validations started",
	})
	validationCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_completed_total",
		Help: "Total validations completed, split by degraded result",
	}, []string{"degraded"})
	validationFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_failed_total",
		Help: "Total validations failed before producing a result",
	}, []string{"reason"})
	validationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "validation_duration_ms",
		Help:    "Validation duration in milliseconds",
		Buckets: durationBuckets,
	})
	llmDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_duration_ms",
		Help:    "LLM provider call duration in milliseconds",
		Buckets: durationBuckets,
	}, []string{"provider"})
	documentsUploaded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "documents_uploaded_total",
		Help: "Total documents uploaded with extractable text",
	})
)

func init() {
	registry.MustRegister(
		validationStarted,
		validationCompleted,
		validationFailed,
		validationDuration,
		llmDuration,
		documentsUploaded,
	)
}

// Registry exposes the process registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// IncValidationStarted increments the started counter.
func IncValidationStarted() {
	validationStarted.Inc()
}

// IncValidationCompleted increments the completed counter.
func IncValidationCompleted(degraded bool) {
	validationCompleted.WithLabelValues(strconv.FormatBool(degraded)).Inc()
}

// IncValidationFailed increments the failed counter for reason.
func IncValidationFailed(reason string) {
	validationFailed.WithLabelValues(reason).Inc()
}

// IncDocumentsUploaded increments the upload counter.
func IncDocumentsUploaded() {
	documentsUploaded.Inc()
}

// ObserveValidationDurationMs records a validation duration in milliseconds.
func ObserveValidationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	validationDuration.Observe(value)
}

// ObserveLLMDurationMs records a provider call duration in milliseconds.
func ObserveLLMDurationMs(provider string, value float64) {
	if value < 0 {
		value = 0
	}
	llmDuration.WithLabelValues(provider).Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
