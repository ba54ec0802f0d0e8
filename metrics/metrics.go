package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RequestsTotal counts relay requests by endpoint and outcome.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chat_relay",
		Name:      "requests_total",
		Help:      "Total number of relay requests, labeled by endpoint and result.",
	}, []string{"endpoint", "result"})

	// RequestDurationSeconds is the end-to-end handler time, including streaming.
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chat_relay",
		Name:      "request_duration_seconds",
		Help:      "End-to-end time to serve a relay request.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"endpoint"})

	TranslationFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chat_relay",
		Name:      "translation_fallbacks_total",
		Help:      "Total number of messages forwarded untranslated because translation failed.",
	})

	ImageDecodeFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chat_relay",
		Name:      "image_decode_failures_total",
		Help:      "Total number of images dropped from prompts because they failed to decode.",
	})

	StreamChunksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chat_relay",
		Name:      "stream_chunks_total",
		Help:      "Total number of server-sent events written to clients.",
	})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chat_relay",
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the per-IP rate limiter.",
	})
)

// Register registers relay metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDurationSeconds,
			TranslationFallbacksTotal,
			ImageDecodeFailuresTotal,
			StreamChunksTotal,
			RateLimitedTotal,
		)
	})
}
