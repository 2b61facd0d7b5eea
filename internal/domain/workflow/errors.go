package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a stage transition is not in the table
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrInvalidStage is returned when a stage is not part of the pipeline
	ErrInvalidStage = errors.New("invalid stage")

	// ErrTerminalStage is returned when a transition is requested out of a terminal stage
	ErrTerminalStage = errors.New("stage is terminal")
)
