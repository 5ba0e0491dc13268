package weather

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishfile_weather_api_calls_total",
			Help: "Total weather provider API calls",
		},
		[]string{"endpoint", "status"},
	)

	apiLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishfile_weather_api_latency_seconds",
			Help:    "Weather provider API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)
