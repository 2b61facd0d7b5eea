package workflow

import (
	"fmt"
	"sort"
)

// StateMachineBuilder builds a configured stage machine
type StateMachineBuilder interface {
	// Configure returns a stage configuration for the given stage
	Configure(stage Stage) StageConfiguration

	// Build creates a new state machine positioned at the given stage
	Build(current Stage) StateMachine
}

// StageConfiguration configures the transitions leaving a specific stage
type StageConfiguration interface {
	// Permit allows the requested stage as the next stage
	Permit(requested Stage) StageConfiguration

	// PermitAs allows the requested stage but lands the candidate on another stage.
	// label names the transition in the stage history.
	PermitAs(requested, landing Stage, label string) StageConfiguration
}

// transition represents one permitted hop
type transition struct {
	landing Stage
	label   string
}

// stageConfig implements StageConfiguration
type stageConfig struct {
	fromStage   Stage
	transitions map[Stage]transition
}

// stateMachineBuilder implements StateMachineBuilder
type stateMachineBuilder struct {
	configurations map[Stage]*stageConfig
}

// stateMachine implements StateMachine
type stateMachine struct {
	current        Stage
	configurations map[Stage]*stageConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[Stage]*stageConfig),
	}
}

// Configure returns a stage configuration for the given stage
func (b *stateMachineBuilder) Configure(stage Stage) StageConfiguration {
	if !stage.IsValid() {
		panic(fmt.Sprintf("invalid stage: %s", stage))
	}
	if stage.IsTerminal() {
		panic(fmt.Sprintf("terminal stage cannot have transitions: %s", stage))
	}

	config, exists := b.configurations[stage]
	if !exists {
		config = &stageConfig{
			fromStage:   stage,
			transitions: make(map[Stage]transition),
		}
		b.configurations[stage] = config
	}

	return config
}

// Build creates a new state machine instance positioned at the given stage
func (b *stateMachineBuilder) Build(current Stage) StateMachine {
	if !current.IsValid() {
		panic(fmt.Sprintf("invalid current stage: %s", current))
	}

	// Copy so later Configure calls never leak into built machines
	configsCopy := make(map[Stage]*stageConfig, len(b.configurations))
	for stage, config := range b.configurations {
		transitionsCopy := make(map[Stage]transition, len(config.transitions))
		for requested, t := range config.transitions {
			transitionsCopy[requested] = t
		}
		configsCopy[stage] = &stageConfig{
			fromStage:   stage,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		current:        current,
		configurations: configsCopy,
	}
}

// Permit allows the requested stage as the next stage
func (c *stageConfig) Permit(requested Stage) StageConfiguration {
	return c.PermitAs(requested, requested, "")
}

// PermitAs allows the requested stage and lands on the given stage
func (c *stageConfig) PermitAs(requested, landing Stage, label string) StageConfiguration {
	if !requested.IsValid() {
		panic(fmt.Sprintf("invalid requested stage: %s", requested))
	}
	if !landing.IsValid() || landing.IsReserved() {
		panic(fmt.Sprintf("invalid landing stage: %s", landing))
	}
	if !c.fromStage.Before(requested) || !c.fromStage.Before(landing) {
		panic(fmt.Sprintf("backward transition %s -> %s", c.fromStage, requested))
	}

	c.transitions[requested] = transition{
		landing: landing,
		label:   label,
	}

	return c
}

// Stage returns the current stage
func (m *stateMachine) Stage() Stage {
	return m.current
}

// CanFire returns true if the requested stage is permitted from the current stage
func (m *stateMachine) CanFire(requested Stage) bool {
	config, exists := m.configurations[m.current]
	if !exists {
		return false
	}
	_, exists = config.transitions[requested]
	return exists
}

// Fire resolves the requested stage and moves the machine to its landing stage
func (m *stateMachine) Fire(requested Stage) (Transition, error) {
	if m.current.IsTerminal() {
		return Transition{}, fmt.Errorf("%w: %s is terminal (%w)", ErrInvalidTransition, m.current, ErrTerminalStage)
	}

	config, exists := m.configurations[m.current]
	if !exists {
		return Transition{}, fmt.Errorf("%w: no transitions configured from %s", ErrInvalidTransition, m.current)
	}

	t, exists := config.transitions[requested]
	if !exists {
		return Transition{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.current, requested)
	}

	resolved := Transition{
		From:      m.current,
		Requested: requested,
		To:        t.landing,
		Label:     t.label,
	}
	m.current = t.landing

	return resolved, nil
}

// PermittedTargets returns the stages that may be requested from the current stage,
// in pipeline order
func (m *stateMachine) PermittedTargets() []Stage {
	config, exists := m.configurations[m.current]
	if !exists {
		return []Stage{}
	}

	targets := make([]Stage, 0, len(config.transitions))
	for requested := range config.transitions {
		targets = append(targets, requested)
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].Ordinal() < targets[j].Ordinal()
	})

	return targets
}
