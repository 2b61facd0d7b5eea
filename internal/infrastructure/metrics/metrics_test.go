package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Honey822438/RecuirtSys/internal/application/workflow"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

var _ workflow.Recorder = (*Metrics)(nil)

func TestMetrics_Transitions(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTransition(domainwf.StageEntry, domainwf.StageAwaitingDataflow, "ok", 2*time.Millisecond)
	m.ObserveTransition(domainwf.StageEntry, domainwf.StageAwaitingDataflow, "ok", 3*time.Millisecond)
	m.ObserveTransition(domainwf.StageEntry, domainwf.StageAwaitingDataflow, string(workflow.KindGateNotSatisfied), time.Millisecond)
	m.IncGateFailure(domainwf.StageAwaitingDataflow, "Passport")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ENTRY", "AWAITING_DATAFLOW", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ENTRY", "AWAITING_DATAFLOW", "GATE_NOT_SATISFIED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateFailures.WithLabelValues("AWAITING_DATAFLOW", "Passport")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.TransitionLatency))
}

func TestMetrics_StageCounts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetStageCounts(map[domainwf.Stage]int{domainwf.StageAwaitingProtector: 3})
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CandidatesByStage.WithLabelValues("AWAITING_PROTECTOR")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CandidatesByStage.WithLabelValues("ENTRY")))
	assert.Equal(t, len(domainwf.Stages()), testutil.CollectAndCount(m.CandidatesByStage))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition(domainwf.StageEntry, domainwf.StageAwaitingDataflow, "ok", time.Millisecond)
		m.IncGateFailure(domainwf.StageAwaitingDataflow, "Passport")
		m.SetStageCounts(nil)
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})

	m := New(prometheus.NewRegistry())
	m.ObserveHTTP("POST", "/api/candidates/:id/transition", 422, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/candidates/:id/transition", "422")))
}
