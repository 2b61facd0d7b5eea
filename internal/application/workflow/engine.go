package workflow

import (
	"context"
	"time"

	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/gate"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// WorkflowEngine is the single authority over candidate stage changes
type WorkflowEngine interface {
	// RequestTransition validates and applies one stage transition atomically.
	// Failures are *TransitionError values.
	RequestTransition(ctx context.Context, req TransitionRequest) (*entity.Candidate, error)

	// CanAdvance evaluates the gate of a target stage against the persisted candidate
	// without changing it
	CanAdvance(ctx context.Context, candidateID string, target domainwf.Stage) (gate.Result, error)

	// PermittedTargets returns the stages that may be requested next
	PermittedTargets(ctx context.Context, candidateID string) ([]domainwf.Stage, error)
}

// TransitionRequest is one actor's request to move a candidate
type TransitionRequest struct {
	CandidateID string
	Actor       entity.Actor
	TargetStage domainwf.Stage
	Payload     Payload
	// ExpectedVersion, when set, must match the persisted version
	ExpectedVersion *int64
}

// Payload carries the evidence submitted with a transition
type Payload struct {
	Documents     []entity.Document
	MedicalStatus *entity.MedicalStatus
	Payment       *entity.Payment
}

// Recorder receives workflow measurements
type Recorder interface {
	ObserveTransition(from, requested domainwf.Stage, outcome string, d time.Duration)
	IncGateFailure(stage domainwf.Stage, requirement string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(domainwf.Stage, domainwf.Stage, string, time.Duration) {}
func (nopRecorder) IncGateFailure(domainwf.Stage, string)                                  {}
