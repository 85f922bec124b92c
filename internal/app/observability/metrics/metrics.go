package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ChatRequestsTotal  metric.Int64Counter
	ChatFallbacksTotal metric.Int64Counter
	UpstreamDuration   metric.Float64Histogram
	HistoryWriteErrors metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("japasea-server")
		var err error
		m := &AppMetrics{}

		m.ChatRequestsTotal, err = meter.Int64Counter(
			"chat_requests_total",
			metric.WithDescription("Chat requests by intent and outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_requests_total: %v", err)
		}

		m.ChatFallbacksTotal, err = meter.Int64Counter(
			"chat_fallbacks_total",
			metric.WithDescription("Responses served by the local fallback generator"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_fallbacks_total: %v", err)
		}

		m.UpstreamDuration, err = meter.Float64Histogram(
			"chat_upstream_duration_seconds",
			metric.WithDescription("Latency of generative model calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_upstream_duration_seconds: %v", err)
		}

		m.HistoryWriteErrors, err = meter.Int64Counter(
			"chat_history_write_errors_total",
			metric.WithDescription("Best-effort chat history writes that failed"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_history_write_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the initialized metrics, or nil before InitAppMetrics ran.
func Get() *AppMetrics {
	return appMetrics
}
