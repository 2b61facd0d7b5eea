package workflow

import (
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// LabelVisaIssued marks the embassy hop in stage history. The candidate lands on
// AwaitingBureau; the reserved VisaIssued stage is never stored.
const LabelVisaIssued = "visa issued"

// LabelDataflowCompleted marks the dataflow hop that auto-advances to Mumaris
const LabelDataflowCompleted = "dataflow completed"

var pipeline = newPipelineBuilder()

func newPipelineBuilder() domainwf.StateMachineBuilder {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StageEntry).
		Permit(domainwf.StageAwaitingDataflow)

	builder.Configure(domainwf.StageAwaitingDataflow).
		Permit(domainwf.StageDataflowApplied)

	builder.Configure(domainwf.StageDataflowApplied).
		PermitAs(domainwf.StageDataflowCompleted, domainwf.StageAwaitingMumaris, LabelDataflowCompleted)

	builder.Configure(domainwf.StageAwaitingMumaris).
		Permit(domainwf.StageMumarisApplied)

	builder.Configure(domainwf.StageMumarisApplied).
		Permit(domainwf.StageAwaitingQVP)

	builder.Configure(domainwf.StageAwaitingQVP).
		Permit(domainwf.StageQVPApplied)

	builder.Configure(domainwf.StageQVPApplied).
		Permit(domainwf.StageAwaitingEmbassy)

	builder.Configure(domainwf.StageAwaitingEmbassy).
		PermitAs(domainwf.StageAwaitingBureau, domainwf.StageAwaitingBureau, LabelVisaIssued)

	builder.Configure(domainwf.StageAwaitingBureau).
		Permit(domainwf.StageAwaitingProtector)

	builder.Configure(domainwf.StageAwaitingProtector).
		Permit(domainwf.StageProtectorDone)

	// DataflowCompleted is never a resting stage, VisaIssued and NOCReceived are
	// reserved, and ProtectorDone is terminal: none of them has outgoing transitions.

	return builder
}

// BuildPipelineStateMachine creates a state machine for the recruitment pipeline
// positioned at the given stage
func BuildPipelineStateMachine(current domainwf.Stage) domainwf.StateMachine {
	return pipeline.Build(current)
}
