package event

// Type identifies the type of domain event
type Type string

const (
	TypeCandidateCreated  Type = "candidate.created"
	TypeStageChanged      Type = "candidate.stage_changed"
	TypeDocumentsUpdated  Type = "candidate.documents_updated"
	TypeProfileUpdated    Type = "candidate.profile_updated"
	TypeTransitionBlocked Type = "candidate.transition_blocked"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeCandidateCreated,
		TypeStageChanged,
		TypeDocumentsUpdated,
		TypeProfileUpdated,
		TypeTransitionBlocked:
		return true
	default:
		return false
	}
}
