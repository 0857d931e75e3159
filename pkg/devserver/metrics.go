package devserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "routegen"

type metrics struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	routes      prometheus.Gauge
	clients     prometheus.GaugeFunc
}

func newMetrics(reg prometheus.Registerer, hub *Hub) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of route generations",
		}, []string{"status"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Route generation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes",
			Help:      "Number of routes in the last successful generation",
		}),

		clients: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients",
		}, func() float64 { return float64(hub.ClientCount()) }),
	}
}
