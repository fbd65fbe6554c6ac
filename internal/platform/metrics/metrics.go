package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the API and the export worker.
type Metrics struct {
	ClaimsCreated     prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	ExportsEnqueued   *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec

	ExportOutcomes     *prometheus.CounterVec
	ExportDuration     *prometheus.HistogramVec
	ExportRetries      *prometheus.CounterVec
	ExportDeadLettered *prometheus.CounterVec
}

// New creates and registers the metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ClaimsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "claimdocs_claims_created_total",
			Help: "Total number of claims created",
		}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claimdocs_claim_status_transitions_total",
			Help: "Claim status changes by target status and result",
		}, []string{"to", "result"}),
		ExportsEnqueued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claimdocs_exports_enqueued_total",
			Help: "Export requests published to the queue by artifact",
		}, []string{"artifact"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "claimdocs_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ExportOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claimdocs_export_outcomes_total",
			Help: "Finished export runs by artifact and final state",
		}, []string{"artifact", "state"}),
		ExportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "claimdocs_export_build_duration_seconds",
			Help:    "Time from validation to attachment of an export artifact",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"artifact"}),
		ExportRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claimdocs_export_retries_total",
			Help: "Export records retried after a handler error",
		}, []string{"topic"}),
		ExportDeadLettered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "claimdocs_export_dead_lettered_total",
			Help: "Export records moved to the dead-letter topic",
		}, []string{"topic"}),
	}
}

func (m *Metrics) IncrementClaimsCreated() {
	m.ClaimsCreated.Inc()
}

func (m *Metrics) ObserveTransition(to string, ok bool) {
	result := "accepted"
	if !ok {
		result = "rejected"
	}
	m.StatusTransitions.WithLabelValues(to, result).Inc()
}

func (m *Metrics) IncrementExportsEnqueued(artifact string) {
	m.ExportsEnqueued.WithLabelValues(artifact).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) ObserveExport(artifact, state string, d time.Duration) {
	m.ExportOutcomes.WithLabelValues(artifact, state).Inc()
	if d > 0 {
		m.ExportDuration.WithLabelValues(artifact).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementExportRetries(topic string) {
	m.ExportRetries.WithLabelValues(topic).Inc()
}

func (m *Metrics) IncrementExportDeadLettered(topic string) {
	m.ExportDeadLettered.WithLabelValues(topic).Inc()
}
