package workflow

// StateMachine evaluates transition legality from a candidate's current stage
type StateMachine interface {
	// Stage returns the current stage
	Stage() Stage

	// CanFire returns true if the requested stage is reachable in one hop
	CanFire(requested Stage) bool

	// Fire moves the machine to the landing stage of the requested transition
	Fire(requested Stage) (Transition, error)

	// PermittedTargets returns every stage that may be requested from the current stage
	PermittedTargets() []Stage
}

// Transition describes one resolved hop through the pipeline
type Transition struct {
	From      Stage
	Requested Stage
	To        Stage
	Label     string
}

// AutoAdvanced reports whether the machine landed somewhere other than the requested stage
func (t Transition) AutoAdvanced() bool {
	return t.Requested != t.To
}
