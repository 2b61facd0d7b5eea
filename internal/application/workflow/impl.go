package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/dispatcher"
	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/domain/authz"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	"github.com/Honey822438/RecuirtSys/internal/domain/event"
	"github.com/Honey822438/RecuirtSys/internal/domain/gate"
	"github.com/Honey822438/RecuirtSys/internal/domain/progress"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// engineImpl is the concrete implementation of WorkflowEngine.
// It keeps no per-candidate state; every request starts from the persisted record.
type engineImpl struct {
	candidates port.CandidateRepository
	history    port.HistoryRepository
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	guard      *authz.Guard
	gates      *gate.Evaluator
	recorder   Recorder
	logger     *zap.Logger
	now        func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) EngineOption {
	return func(e *engineImpl) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *engineImpl) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	candidates port.CandidateRepository,
	history port.HistoryRepository,
	txManager port.TransactionManager,
	opts ...EngineOption,
) WorkflowEngine {
	e := &engineImpl{
		candidates: candidates,
		history:    history,
		txManager:  txManager,
		guard:      authz.NewGuard(),
		gates:      gate.NewEvaluator(),
		recorder:   nopRecorder{},
		logger:     zap.NewNop(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RequestTransition loads the candidate, authorizes the actor, checks the hop
// against the transition table, merges the payload into a working copy, evaluates
// the gate and saves stage, documents and progress together.
func (e *engineImpl) RequestTransition(ctx context.Context, req TransitionRequest) (*entity.Candidate, error) {
	start := e.now()
	current, version, err := e.load(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}

	from := current.Stage
	fail := func(te *TransitionError) (*entity.Candidate, error) {
		te.CandidateID = req.CandidateID
		if te.From == "" {
			te.From = from
		}
		if te.To == "" {
			te.To = req.TargetStage
		}
		e.recorder.ObserveTransition(from, req.TargetStage, string(te.Kind), e.now().Sub(start))
		e.logger.Info("Transition rejected",
			zap.String("candidate_id", req.CandidateID),
			zap.String("actor_id", req.Actor.ID),
			zap.String("from", from.String()),
			zap.String("requested", req.TargetStage.String()),
			zap.String("kind", string(te.Kind)),
		)
		return nil, te
	}

	if req.ExpectedVersion != nil && *req.ExpectedVersion != version {
		return fail(&TransitionError{
			Kind: KindStaleState,
			Err:  fmt.Errorf("expected version %d, persisted version %d", *req.ExpectedVersion, version),
		})
	}

	if !req.TargetStage.IsValid() {
		return fail(&TransitionError{Kind: KindInvalidTransition, Err: domainwf.ErrInvalidStage})
	}

	if !e.guard.Authorize(req.Actor, current, req.TargetStage) {
		return fail(&TransitionError{
			Kind: KindAuthorizationDenied,
			Err:  fmt.Errorf("role %q may not act on stage %s", req.Actor.Role, from),
		})
	}

	machine := BuildPipelineStateMachine(from)
	tr, err := machine.Fire(req.TargetStage)
	if err != nil {
		return fail(&TransitionError{Kind: KindInvalidTransition, Err: err})
	}

	now := e.now()
	working := current.Clone()
	if err := applyPayload(working, req.Payload, now); err != nil {
		return fail(&TransitionError{Kind: KindValidation, Err: err})
	}

	if res := e.gates.EvaluateTransition(current, working, tr.Requested); !res.OK {
		for _, m := range res.Missing {
			e.recorder.IncGateFailure(tr.Requested, m.Name)
		}
		e.dispatch(ctx, event.TypeTransitionBlocked, req.CandidateID, req.Actor.ID, map[string]interface{}{
			"from":      from.String(),
			"requested": tr.Requested.String(),
			"missing":   res.MissingNames(),
		})
		return fail(&TransitionError{Kind: KindGateNotSatisfied, Missing: res.Missing})
	}

	working.Stage = tr.To
	working.Progress = progress.Next(current.Progress, tr.Requested, tr.To)
	working.UpdatedAt = now

	record := &entity.StageHistory{
		ID:             uuid.NewString(),
		CandidateID:    working.ID,
		ActorID:        req.Actor.ID,
		ActorRole:      req.Actor.Role,
		FromStage:      tr.From,
		RequestedStage: tr.Requested,
		ToStage:        tr.To,
		Label:          tr.Label,
		ProgressBefore: current.Progress,
		ProgressAfter:  working.Progress,
		CreatedAt:      now,
	}

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := e.candidates.Save(txCtx, working, version); err != nil {
			return err
		}
		if err := e.history.Create(txCtx, record); err != nil {
			return fmt.Errorf("failed to create history record: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, port.ErrVersionConflict) {
			return fail(&TransitionError{Kind: KindStaleState, Err: err})
		}
		e.logger.Error("Failed to persist transition",
			zap.String("candidate_id", req.CandidateID),
			zap.Error(err),
		)
		return fail(&TransitionError{Kind: KindRepositoryUnavailable, Err: err})
	}

	e.recorder.ObserveTransition(from, tr.Requested, "ok", e.now().Sub(start))
	e.logger.Info("Candidate stage changed",
		zap.String("candidate_id", working.ID),
		zap.String("actor_id", req.Actor.ID),
		zap.String("from", tr.From.String()),
		zap.String("to", tr.To.String()),
		zap.Int("progress", working.Progress),
		zap.Int64("version", working.Version),
	)

	e.dispatch(ctx, event.TypeStageChanged, working.ID, req.Actor.ID, map[string]interface{}{
		"from":              tr.From.String(),
		"requested":         tr.Requested.String(),
		"to":                tr.To.String(),
		"label":             tr.Label,
		"progress":          working.Progress,
		"hiring_officer_id": working.HiringOfficerID,
	})

	return working, nil
}

// CanAdvance evaluates readiness for the target stage against the persisted record
func (e *engineImpl) CanAdvance(ctx context.Context, candidateID string, target domainwf.Stage) (gate.Result, error) {
	current, _, err := e.load(ctx, candidateID)
	if err != nil {
		return gate.Result{}, err
	}

	if !BuildPipelineStateMachine(current.Stage).CanFire(target) {
		return gate.Result{}, &TransitionError{
			Kind:        KindInvalidTransition,
			CandidateID: candidateID,
			From:        current.Stage,
			To:          target,
		}
	}

	return e.gates.EvaluateTransition(current, current, target), nil
}

// PermittedTargets returns the stages reachable in one hop from the persisted stage
func (e *engineImpl) PermittedTargets(ctx context.Context, candidateID string) ([]domainwf.Stage, error) {
	current, _, err := e.load(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return BuildPipelineStateMachine(current.Stage).PermittedTargets(), nil
}

func (e *engineImpl) load(ctx context.Context, id string) (*entity.Candidate, int64, error) {
	c, version, err := e.candidates.Load(ctx, id)
	if err != nil {
		if errors.Is(err, port.ErrCandidateNotFound) {
			return nil, 0, NewError(KindNotFound, id, err)
		}
		return nil, 0, NewError(KindRepositoryUnavailable, id, err)
	}
	if !c.Stage.IsValid() {
		return nil, 0, NewError(KindRepositoryUnavailable, id, fmt.Errorf("%w: persisted stage %q", domainwf.ErrInvalidStage, c.Stage))
	}
	return c, version, nil
}

func (e *engineImpl) dispatch(ctx context.Context, t event.Type, candidateID, actorID string, payload map[string]interface{}) {
	if e.dispatcher == nil {
		return
	}
	e.dispatcher.DispatchAsync(ctx, event.NewEvent(t, candidateID, actorID, payload))
}

// applyPayload merges transition evidence into the working copy
func applyPayload(c *entity.Candidate, p Payload, at time.Time) error {
	if len(p.Documents) > 0 {
		if err := gate.MergeDocuments(c, p.Documents, at); err != nil {
			return err
		}
	}
	if p.MedicalStatus != nil {
		if !p.MedicalStatus.IsValid() {
			return fmt.Errorf("invalid medical status %q", *p.MedicalStatus)
		}
		c.MedicalStatus = *p.MedicalStatus
	}
	if p.Payment != nil {
		if err := ValidatePayment(*p.Payment); err != nil {
			return err
		}
		c.Payment = *p.Payment
	}
	return nil
}

// ValidatePayment rejects negative amounts
func ValidatePayment(p entity.Payment) error {
	if p.Agreed < 0 || p.Additional < 0 || p.Received < 0 {
		return errors.New("payment amounts must not be negative")
	}
	return nil
}
