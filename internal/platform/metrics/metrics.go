// Package metrics defines the Prometheus instrumentation for the consent
// gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors. A nil *Metrics is valid
// and turns every record method into a no-op, which keeps tests quiet.
type Metrics struct {
	requestsCreated  prometheus.Counter
	requestsDeleted  prometheus.Counter
	receiptsIssued   prometheus.Counter
	invitationsSent  prometheus.Counter
	pipelineFailures *prometheus.CounterVec
	pipelineLatency  prometheus.Histogram
	endpointLatency  *prometheus.HistogramVec
}

// New registers the gateway collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "consent_requests_created_total",
			Help: "Total number of consent requests created.",
		}),
		requestsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "consent_requests_deleted_total",
			Help: "Total number of consent requests deleted.",
		}),
		receiptsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "consent_receipts_issued_total",
			Help: "Total number of consent receipts issued.",
		}),
		invitationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "consent_invitations_sent_total",
			Help: "Total number of consent invitations sent.",
		}),
		pipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consent_pipeline_failures_total",
			Help: "Receipt issuance pipeline failures by stage.",
		}, []string{"stage"}),
		pipelineLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "consent_pipeline_duration_seconds",
			Help:    "Duration of the receipt issuance pipeline.",
			Buckets: prometheus.DefBuckets,
		}),
		endpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consent_endpoint_duration_seconds",
			Help:    "Duration of consent API endpoints.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),
	}
}

func (m *Metrics) RequestCreated() {
	if m == nil {
		return
	}
	m.requestsCreated.Inc()
}

func (m *Metrics) RequestDeleted() {
	if m == nil {
		return
	}
	m.requestsDeleted.Inc()
}

func (m *Metrics) ReceiptIssued() {
	if m == nil {
		return
	}
	m.receiptsIssued.Inc()
}

func (m *Metrics) InvitationSent() {
	if m == nil {
		return
	}
	m.invitationsSent.Inc()
}

func (m *Metrics) PipelineFailure(stage string) {
	if m == nil {
		return
	}
	m.pipelineFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObservePipeline(seconds float64) {
	if m == nil {
		return
	}
	m.pipelineLatency.Observe(seconds)
}

func (m *Metrics) ObserveEndpoint(endpoint, method string, seconds float64) {
	if m == nil {
		return
	}
	m.endpointLatency.WithLabelValues(endpoint, method).Observe(seconds)
}
