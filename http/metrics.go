package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	AudioBytes      prometheus.Histogram
	ModelFailures   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicetracker_proxy_requests_total",
			Help: "Proxy requests by response status",
		}, []string{"status"}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicetracker_proxy_request_duration_seconds",
			Help:    "Time spent answering /api/ai",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 90},
		}),
		AudioBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicetracker_proxy_audio_bytes",
			Help:    "Size of decoded audio per request",
			Buckets: prometheus.ExponentialBuckets(16<<10, 2, 10),
		}),
		ModelFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicetracker_proxy_model_failures_total",
			Help: "Model calls that returned an error",
		}),
	}
}
