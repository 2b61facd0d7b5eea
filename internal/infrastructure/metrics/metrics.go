// Package metrics exports workflow and HTTP measurements to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// Metrics provides observability for the candidate pipeline
type Metrics struct {
	// Transition attempts by source stage, requested stage and outcome
	Transitions *prometheus.CounterVec

	// Time spent handling one transition request
	TransitionLatency *prometheus.HistogramVec

	// Gate requirements that blocked a transition
	GateFailures *prometheus.CounterVec

	// Candidates per stage at the last stats computation
	CandidatesByStage *prometheus.GaugeVec

	// HTTP requests by method, route and status
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New registers all pipeline metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruit_transitions_total",
			Help: "Stage transition requests by outcome",
		}, []string{"from", "requested", "outcome"}), // outcome: "ok" or an error kind

		TransitionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recruit_transition_duration_seconds",
			Help:    "Duration of stage transition requests",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"outcome"}),

		GateFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruit_gate_failures_total",
			Help: "Unsatisfied gate requirements by requested stage",
		}, []string{"stage", "requirement"}),

		CandidatesByStage: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "recruit_candidates",
			Help: "Candidates currently in each stage",
		}, []string{"stage"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruit_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recruit_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveTransition records one transition attempt
func (m *Metrics) ObserveTransition(from, requested workflow.Stage, outcome string, d time.Duration) {
	if m != nil {
		m.Transitions.WithLabelValues(from.String(), requested.String(), outcome).Inc()
		m.TransitionLatency.WithLabelValues(outcome).Observe(d.Seconds())
	}
}

// IncGateFailure records one unsatisfied requirement
func (m *Metrics) IncGateFailure(stage workflow.Stage, requirement string) {
	if m != nil {
		m.GateFailures.WithLabelValues(stage.String(), requirement).Inc()
	}
}

// SetStageCounts publishes the per-stage candidate counts; stages absent from counts read zero
func (m *Metrics) SetStageCounts(counts map[workflow.Stage]int) {
	if m == nil {
		return
	}
	for _, s := range workflow.Stages() {
		m.CandidatesByStage.WithLabelValues(s.String()).Set(float64(counts[s]))
	}
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPLatency.WithLabelValues(method, route).Observe(d.Seconds())
	}
}
