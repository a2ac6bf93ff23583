package workflow

// StateMachine tracks a current state and validates transitions against a
// fixed transition table. Implementations are not safe for concurrent use;
// build one per evaluation.
type StateMachine interface {
	// State returns the current state.
	State() State

	// CanFire returns true if the trigger is permitted in the current state.
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the target state if permitted.
	Fire(trigger Trigger) error

	// PermittedTriggers returns all triggers that can fire in the current state.
	PermittedTriggers() []Trigger

	// IsTerminal returns true if the current state has no outgoing transitions.
	IsTerminal() bool
}

type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger]State
}

// State returns the current state.
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state.
func (m *stateMachine) CanFire(trigger Trigger) bool {
	outgoing, ok := m.transitions[m.currentState]
	if !ok {
		return false
	}
	_, ok = outgoing[trigger]
	return ok
}

// Fire executes the trigger, moving to the target state if permitted.
// Exactly one target state exists per (state, trigger) pair, so firing is
// deterministic.
func (m *stateMachine) Fire(trigger Trigger) error {
	outgoing, ok := m.transitions[m.currentState]
	if !ok {
		return ErrInvalidTransitionf(m.currentState, trigger)
	}
	target, ok := outgoing[trigger]
	if !ok {
		return ErrInvalidTransitionf(m.currentState, trigger)
	}
	m.currentState = target
	return nil
}

// PermittedTriggers returns all triggers that can fire in the current state.
func (m *stateMachine) PermittedTriggers() []Trigger {
	outgoing := m.transitions[m.currentState]
	triggers := make([]Trigger, 0, len(outgoing))
	for trigger := range outgoing {
		triggers = append(triggers, trigger)
	}
	return triggers
}

// IsTerminal returns true if the current state has no outgoing transitions.
func (m *stateMachine) IsTerminal() bool {
	return len(m.transitions[m.currentState]) == 0
}
