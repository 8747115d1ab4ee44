package exporter

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors published on the exporter's scrape endpoint.
// They are registered on an explicit registry so tests can build isolated
// instances instead of sharing process-wide state.
type Metrics struct {
	Requests      *prometheus.CounterVec
	Latency       prometheus.Histogram
	Retries       *prometheus.CounterVec
	LastHeartbeat prometheus.Gauge
}

// Latency buckets are fixed in milliseconds; they match the dashboards that
// already scrape this exporter.
var latencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2000, 4000}

// NewMetrics constructs the exporter collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cfbd_client_requests_total",
			Help: "Total CFBD client requests by client and outcome",
		}, []string{"client", "outcome"}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cfbd_client_latency_ms",
			Help:    "CFBD client request latency in milliseconds",
			Buckets: latencyBuckets,
		}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cfbd_client_retries_total",
			Help: "Total CFBD client retry attempts by client",
		}, []string{"client"}),
		LastHeartbeat: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cfbd_subscription_last_heartbeat",
			Help: "Unix timestamp of the most recent subscription event",
		}),
	}
	reg.MustRegister(m.Requests, m.Latency, m.Retries, m.LastHeartbeat)
	return m
}
