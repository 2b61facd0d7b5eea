package gate

import "fmt"

// RequirementKind tells what a requirement inspects
type RequirementKind string

const (
	KindDocument RequirementKind = "document"
	KindMedical  RequirementKind = "medical"
	KindStage    RequirementKind = "stage"
)

// Requirement is one precondition of a gated stage
type Requirement struct {
	Kind RequirementKind `json:"kind"`
	Name string          `json:"name"`
	Want string          `json:"want"`
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s %q must be %s", r.Kind, r.Name, r.Want)
}

// Result is the outcome of a gate evaluation
type Result struct {
	OK      bool          `json:"ok"`
	Missing []Requirement `json:"missing,omitempty"`
}

// MissingNames returns the names of the unmet requirements in table order
func (r Result) MissingNames() []string {
	names := make([]string, 0, len(r.Missing))
	for _, m := range r.Missing {
		names = append(names, m.Name)
	}
	return names
}

func resultOf(missing []Requirement) Result {
	if len(missing) == 0 {
		return Result{OK: true}
	}
	return Result{OK: false, Missing: missing}
}
