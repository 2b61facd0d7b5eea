package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

func TestFloorFor_NonDecreasingAlongPipeline(t *testing.T) {
	prev := 0
	for _, s := range workflow.Stages() {
		f := FloorFor(s)
		assert.GreaterOrEqual(t, f, prev, "floor of %s", s)
		assert.LessOrEqual(t, f, Max)
		prev = f
	}
	assert.Equal(t, 5, FloorFor(workflow.StageEntry))
	assert.Equal(t, 100, FloorFor(workflow.StageProtectorDone))
	assert.Equal(t, 0, FloorFor(workflow.Stage("UNKNOWN")))
}

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current int
		stages  []workflow.Stage
		want    int
	}{
		{"raises to floor", 5, []workflow.Stage{workflow.StageAwaitingDataflow}, 15},
		{"keeps higher current", 70, []workflow.Stage{workflow.StageAwaitingEmbassy}, 70},
		{"max of several floors", 25, []workflow.Stage{workflow.StageDataflowCompleted, workflow.StageAwaitingMumaris}, 35},
		{"caps at 100", 140, []workflow.Stage{workflow.StageProtectorDone}, 100},
		{"terminal", 98, []workflow.Stage{workflow.StageProtectorDone}, 100},
		{"no stages", 42, nil, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.current, tt.stages...))
		})
	}
}

func TestNext_MonotonicOverFullPipeline(t *testing.T) {
	p := FloorFor(workflow.StageEntry)
	for _, s := range workflow.Stages() {
		next := Next(p, s)
		assert.GreaterOrEqual(t, next, p)
		assert.LessOrEqual(t, next, Max)
		p = next
	}
	assert.Equal(t, Max, p)
}

func TestRaise(t *testing.T) {
	assert.Equal(t, FlightTicketFloor, Raise(90, FlightTicketFloor))
	assert.Equal(t, 100, Raise(100, FlightTicketFloor))
	assert.Equal(t, 0, Raise(-3, -1))
}
