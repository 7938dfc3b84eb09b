package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	uploadsTotal    prometheus.Counter
	parsedEntries   prometheus.Counter
	assistantTotal  *prometheus.CounterVec
	llmDuration     prometheus.Histogram
	llmFailures     prometheus.Counter
}

// NewMetricsService registers the API's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	uploadsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_uploads_total",
		Help: "Total timetable PDFs ingested",
	})

	parsedEntries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_entries_parsed_total",
		Help: "Total timetable entries produced by ingestion",
	})

	assistantTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_queries_total",
		Help: "Assistant queries by answer path",
	}, []string{"path"})

	llmDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_llm_duration_seconds",
		Help:    "Latency of language model completions",
		Buckets: prometheus.DefBuckets,
	})

	llmFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assistant_llm_failures_total",
		Help: "Language model completions that returned an error",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, uploadsTotal, parsedEntries, assistantTotal, llmDuration, llmFailures, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		uploadsTotal:    uploadsTotal,
		parsedEntries:   parsedEntries,
		assistantTotal:  assistantTotal,
		llmDuration:     llmDuration,
		llmFailures:     llmFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request timing and volume.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordUpload counts one ingestion and the entries it produced.
func (m *MetricsService) RecordUpload(entries int) {
	if m == nil {
		return
	}
	m.uploadsTotal.Inc()
	m.parsedEntries.Add(float64(entries))
}

// RecordAssistantQuery counts an assistant answer by path: "fast", "llm" or
// "fallback".
func (m *MetricsService) RecordAssistantQuery(path string) {
	if m == nil {
		return
	}
	m.assistantTotal.WithLabelValues(path).Inc()
}

// ObserveLLMCall records a completion round trip.
func (m *MetricsService) ObserveLLMCall(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.llmDuration.Observe(duration.Seconds())
	if err != nil {
		m.llmFailures.Inc()
	}
}
