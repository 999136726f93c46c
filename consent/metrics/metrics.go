package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the consent flow.
type Metrics struct {
	FlowRuns        *prometheus.CounterVec
	FormsShown      prometheus.Counter
	TrackingPrompts *prometheus.CounterVec
	CanRequestAds   prometheus.Gauge
	FlowLatency     prometheus.Histogram
}

// New registers and returns consent-flow metrics collectors.
func New() *Metrics {
	return &Metrics{
		FlowRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adflow_consent_flow_runs_total",
			Help: "Consent flow executions, labeled by result",
		}, []string{"result"}),
		FormsShown: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adflow_consent_forms_shown_total",
			Help: "Consent forms presented to the user",
		}),
		TrackingPrompts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adflow_tracking_prompts_total",
			Help: "Tracking permission prompts, labeled by resulting status",
		}, []string{"status"}),
		CanRequestAds: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "adflow_consent_can_request_ads",
			Help: "1 when the consent status permits ad requests",
		}),
		FlowLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "adflow_consent_flow_latency_seconds",
			Help:    "Wall time of one consent flow run in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementFlowRuns(result string) {
	m.FlowRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementTrackingPrompts(status string) {
	m.TrackingPrompts.WithLabelValues(status).Inc()
}

func (m *Metrics) SetCanRequestAds(allowed bool) {
	if allowed {
		m.CanRequestAds.Set(1)
		return
	}
	m.CanRequestAds.Set(0)
}
