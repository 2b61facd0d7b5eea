package workflow

import "strings"

// Stage represents a candidate's position in the recruitment pipeline
type Stage string

const (
	StageEntry             Stage = "ENTRY"
	StageAwaitingDataflow  Stage = "AWAITING_DATAFLOW"
	StageDataflowApplied   Stage = "DATAFLOW_APPLIED"
	StageDataflowCompleted Stage = "DATAFLOW_COMPLETED"
	StageAwaitingMumaris   Stage = "AWAITING_MUMARIS"
	StageMumarisApplied    Stage = "MUMARIS_APPLIED"
	StageAwaitingQVP       Stage = "AWAITING_QVP"
	StageQVPApplied        Stage = "QVP_APPLIED"
	StageAwaitingEmbassy   Stage = "AWAITING_EMBASSY"
	StageVisaIssued        Stage = "VISA_ISSUED"
	StageAwaitingBureau    Stage = "AWAITING_BUREAU"
	StageNOCReceived       Stage = "NOC_RECEIVED"
	StageAwaitingProtector Stage = "AWAITING_PROTECTOR"
	StageProtectorDone     Stage = "PROTECTOR_DONE"
)

// orderedStages is the canonical pipeline order. Index is the stage ordinal.
var orderedStages = []Stage{
	StageEntry,
	StageAwaitingDataflow,
	StageDataflowApplied,
	StageDataflowCompleted,
	StageAwaitingMumaris,
	StageMumarisApplied,
	StageAwaitingQVP,
	StageQVPApplied,
	StageAwaitingEmbassy,
	StageVisaIssued,
	StageAwaitingBureau,
	StageNOCReceived,
	StageAwaitingProtector,
	StageProtectorDone,
}

var stageOrdinals = func() map[Stage]int {
	m := make(map[Stage]int, len(orderedStages))
	for i, s := range orderedStages {
		m[s] = i
	}
	return m
}()

// aliases accepts the CamelCase names used by portal clients.
var aliases = func() map[string]Stage {
	m := make(map[string]Stage, len(orderedStages))
	for _, s := range orderedStages {
		m[strings.ReplaceAll(string(s), "_", "")] = s
	}
	return m
}()

var terminalStages = map[Stage]bool{
	StageProtectorDone: true,
}

// reservedStages exist in the enumeration but no transition produces them
var reservedStages = map[Stage]bool{
	StageVisaIssued:  true,
	StageNOCReceived: true,
}

// Stages returns the pipeline stages in canonical order
func Stages() []Stage {
	return append([]Stage(nil), orderedStages...)
}

// ParseStage resolves either the wire form (AWAITING_QVP) or the CamelCase
// form (AwaitingQVP) of a stage name.
func ParseStage(s string) (Stage, error) {
	if st := Stage(s); st.IsValid() {
		return st, nil
	}
	key := strings.ToUpper(strings.NewReplacer("_", "", " ", "", "-", "").Replace(s))
	if st, ok := aliases[key]; ok {
		return st, nil
	}
	return "", ErrInvalidStage
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// IsValid returns true if the stage is part of the pipeline
func (s Stage) IsValid() bool {
	_, ok := stageOrdinals[s]
	return ok
}

// IsTerminal returns true if no transition leaves the stage
func (s Stage) IsTerminal() bool {
	return terminalStages[s]
}

// IsReserved returns true for stages no transition ever lands on
func (s Stage) IsReserved() bool {
	return reservedStages[s]
}

// Ordinal returns the stage position in the pipeline, or -1 if invalid
func (s Stage) Ordinal() int {
	if i, ok := stageOrdinals[s]; ok {
		return i
	}
	return -1
}

// Before reports whether s comes strictly before other in the pipeline
func (s Stage) Before(other Stage) bool {
	return s.IsValid() && other.IsValid() && s.Ordinal() < other.Ordinal()
}
