package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Honey822438/RecuirtSys/internal/domain/gate"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
)

// ErrorKind classifies workflow failures for callers
type ErrorKind string

const (
	KindInvalidTransition     ErrorKind = "INVALID_TRANSITION"
	KindGateNotSatisfied      ErrorKind = "GATE_NOT_SATISFIED"
	KindAuthorizationDenied   ErrorKind = "AUTHORIZATION_DENIED"
	KindStaleState            ErrorKind = "STALE_STATE"
	KindRepositoryUnavailable ErrorKind = "REPOSITORY_UNAVAILABLE"
	KindNotFound              ErrorKind = "NOT_FOUND"
	KindValidation            ErrorKind = "VALIDATION_FAILED"
)

// Sentinels matched by errors.Is against a *TransitionError of the same kind
var (
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrGateNotSatisfied      = errors.New("gate not satisfied")
	ErrAuthorizationDenied   = errors.New("authorization denied")
	ErrStaleState            = errors.New("stale candidate state")
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidTransition:     ErrInvalidTransition,
	KindGateNotSatisfied:      ErrGateNotSatisfied,
	KindAuthorizationDenied:   ErrAuthorizationDenied,
	KindStaleState:            ErrStaleState,
	KindRepositoryUnavailable: ErrRepositoryUnavailable,
	KindNotFound:              ErrNotFound,
	KindValidation:            ErrValidation,
}

// TransitionError is the tagged failure of a workflow operation
type TransitionError struct {
	Kind        ErrorKind
	CandidateID string
	From        domainwf.Stage
	To          domainwf.Stage
	Missing     []gate.Requirement
	Err         error
}

func (e *TransitionError) Error() string {
	var b strings.Builder
	b.WriteString(kindSentinels[e.Kind].Error())
	if e.CandidateID != "" {
		fmt.Fprintf(&b, " for candidate %s", e.CandidateID)
	}
	if e.From != "" || e.To != "" {
		fmt.Fprintf(&b, " (%s -> %s)", e.From, e.To)
	}
	if len(e.Missing) > 0 {
		names := make([]string, 0, len(e.Missing))
		for _, m := range e.Missing {
			names = append(names, m.Name)
		}
		fmt.Fprintf(&b, ": missing %s", strings.Join(names, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind
func (e *TransitionError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Retryable reports whether the caller may reload and retry unchanged
func (e *TransitionError) Retryable() bool {
	return e.Kind == KindStaleState
}

// NewError builds a TransitionError of the given kind
func NewError(kind ErrorKind, candidateID string, err error) *TransitionError {
	return &TransitionError{Kind: kind, CandidateID: candidateID, Err: err}
}

// KindOf returns the kind of a workflow error, or "" for foreign errors
func KindOf(err error) ErrorKind {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
