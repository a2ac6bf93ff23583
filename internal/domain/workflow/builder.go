package workflow

import "fmt"

// StateMachineBuilder builds a configured state machine. A single builder is
// configured once per workflow family and reused to mint machines at any
// initial state.
type StateMachineBuilder interface {
	// Configure returns a state configuration for the given state.
	Configure(state State) StateConfiguration

	// Build creates a new state machine instance with the given initial state.
	// The initial state must have been mentioned during configuration, either
	// as a source or as a transition target.
	Build(initialState State) (StateMachine, error)
}

// StateConfiguration configures outgoing transitions for a specific state.
type StateConfiguration interface {
	// Permit allows a trigger to transition to the target state. Configuring
	// the same trigger twice for one state panics: transition tables must be
	// deterministic.
	Permit(trigger Trigger, toState State) StateConfiguration
}

type stateConfig struct {
	builder   *stateMachineBuilder
	fromState State
}

type stateMachineBuilder struct {
	transitions map[State]map[Trigger]State
	known       map[State]bool
}

// NewBuilder creates a new state machine builder.
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		transitions: make(map[State]map[Trigger]State),
		known:       make(map[State]bool),
	}
}

// Configure returns a state configuration for the given state.
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if state.IsZero() {
		panic("cannot configure empty state")
	}
	if _, ok := b.transitions[state]; !ok {
		b.transitions[state] = make(map[Trigger]State)
	}
	b.known[state] = true
	return &stateConfig{builder: b, fromState: state}
}

// Build creates a new state machine instance with the given initial state.
func (b *stateMachineBuilder) Build(initialState State) (StateMachine, error) {
	if !b.known[initialState] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initialState)
	}
	return &stateMachine{
		currentState: initialState,
		transitions:  b.transitions,
	}, nil
}

// Permit allows a trigger to transition to the target state.
func (c *stateConfig) Permit(trigger Trigger, toState State) StateConfiguration {
	if toState.IsZero() {
		panic(fmt.Sprintf("empty target state for trigger %s from %s", trigger, c.fromState))
	}
	if existing, ok := c.builder.transitions[c.fromState][trigger]; ok {
		panic(fmt.Sprintf("trigger %s from state %s already permits %s", trigger, c.fromState, existing))
	}
	c.builder.transitions[c.fromState][trigger] = toState
	c.builder.known[toState] = true
	return c
}
