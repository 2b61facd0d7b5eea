// Package progress projects workflow stages onto the candidate progress percentage.
package progress

import "github.com/Honey822438/RecuirtSys/internal/domain/workflow"

const (
	// Max is the ceiling of any progress value
	Max = 100

	// FlightTicketFloor is the progress of a cleared candidate with a booked flight
	FlightTicketFloor = 98
)

var floors = map[workflow.Stage]int{
	workflow.StageEntry:             5,
	workflow.StageAwaitingDataflow:  15,
	workflow.StageDataflowApplied:   25,
	workflow.StageDataflowCompleted: 35,
	workflow.StageAwaitingMumaris:   35,
	workflow.StageMumarisApplied:    45,
	workflow.StageAwaitingQVP:       50,
	workflow.StageQVPApplied:        55,
	workflow.StageAwaitingEmbassy:   65,
	workflow.StageVisaIssued:        80,
	workflow.StageAwaitingBureau:    80,
	workflow.StageNOCReceived:       90,
	workflow.StageAwaitingProtector: 90,
	workflow.StageProtectorDone:     100,
}

// FloorFor returns the minimum progress of a candidate sitting in stage.
// Unknown stages have no floor.
func FloorFor(stage workflow.Stage) int {
	return floors[stage]
}

// Next returns the progress after reaching the given stages: the largest of the
// current value and every stage floor, capped at Max. It never decreases progress.
func Next(current int, stages ...workflow.Stage) int {
	next := current
	for _, s := range stages {
		if f := FloorFor(s); f > next {
			next = f
		}
	}
	return clamp(next)
}

// Raise lifts progress to at least floor
func Raise(current, floor int) int {
	if floor > current {
		return clamp(floor)
	}
	return clamp(current)
}

func clamp(p int) int {
	switch {
	case p > Max:
		return Max
	case p < 0:
		return 0
	}
	return p
}
