package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for slot lifecycle operations.
type Metrics struct {
	Loads       *prometheus.CounterVec
	Shows       *prometheus.CounterVec
	Retries     *prometheus.CounterVec
	ReadySlots  *prometheus.GaugeVec
	LoadLatency *prometheus.HistogramVec
}

// New registers and returns slot metrics collectors.
func New() *Metrics {
	return &Metrics{
		Loads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adflow_slot_loads_total",
			Help: "Ad load attempts, labeled by format and result",
		}, []string{"format", "result"}),
		Shows: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adflow_slot_shows_total",
			Help: "Ad show attempts, labeled by format and outcome",
		}, []string{"format", "outcome"}),
		Retries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adflow_slot_retries_scheduled_total",
			Help: "Automatic load retries scheduled, labeled by format",
		}, []string{"format"}),
		ReadySlots: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "adflow_slot_ready",
			Help: "1 when the format's slot holds a showable ad",
		}, []string{"format"}),
		LoadLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adflow_slot_load_latency_seconds",
			Help:    "Latency of underlying ad load requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
	}
}

func (m *Metrics) IncrementLoads(format, result string) {
	m.Loads.WithLabelValues(format, result).Inc()
}

func (m *Metrics) IncrementShows(format, outcome string) {
	m.Shows.WithLabelValues(format, outcome).Inc()
}

func (m *Metrics) IncrementRetries(format string) {
	m.Retries.WithLabelValues(format).Inc()
}

func (m *Metrics) SetReady(format string, ready bool) {
	if ready {
		m.ReadySlots.WithLabelValues(format).Set(1)
		return
	}
	m.ReadySlots.WithLabelValues(format).Set(0)
}

func (m *Metrics) ObserveLoadLatency(format string, seconds float64) {
	m.LoadLatency.WithLabelValues(format).Observe(seconds)
}
