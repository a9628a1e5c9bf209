package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog_assistant",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	modelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog_assistant",
		Name:      "model_calls_total",
		Help:      "Chat completion calls to the model service.",
	}, []string{"status"})

	modelCallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "catalog_assistant",
		Name:      "model_call_duration_seconds",
		Help:      "Chat completion latency.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	toolDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog_assistant",
		Name:      "tool_dispatches_total",
		Help:      "Tool invocations requested by the model.",
	}, []string{"tool"})

	conversationEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "catalog_assistant",
		Name:      "conversation_evictions_total",
		Help:      "Conversations evicted from the in-memory store.",
	})
)

// RecordHTTPRequest observes one served HTTP request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RecordModelCall counts one chat completion attempt and its latency.
func RecordModelCall(status string, elapsed time.Duration) {
	modelCalls.WithLabelValues(status).Inc()
	modelCallDuration.Observe(elapsed.Seconds())
}

// RecordToolDispatch counts one tool invocation by name.
func RecordToolDispatch(tool string) {
	toolDispatches.WithLabelValues(tool).Inc()
}

// RecordConversationEviction counts one LRU eviction.
func RecordConversationEviction() {
	conversationEvictions.Inc()
}
