package workflow

import (
	"errors"
	"fmt"

	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
	domainwf "github.com/EmmaDeil/steps-ops-backend/internal/domain/workflow"
)

// ErrUnauthorized is returned when the actor's role is not permitted to fire
// the requested action, even though the action itself is legal for the
// current state.
var ErrUnauthorized = errors.New("actor role not permitted for this action")

// ErrInvalidTransition mirrors the domain machine's sentinel so callers only
// need to import this package.
var ErrInvalidTransition = domainwf.ErrInvalidTransition

// Transition is the result of applying an action: the deterministic target
// state plus the side effects the caller must execute.
type Transition struct {
	Family  string
	Action  domainwf.Trigger
	From    domainwf.State
	To      domainwf.State
	Effects []Effect
}

type rule struct {
	roles   map[string]bool
	effects []Effect
}

// Ruleset is the transition table for one workflow family: the legal
// (status, action) pairs, the roles allowed to fire each action, and the
// effects each transition declares. A Ruleset is immutable after
// construction and safe for concurrent use.
type Ruleset struct {
	family  string
	builder domainwf.StateMachineBuilder
	rules   map[domainwf.State]map[domainwf.Trigger]rule
}

func newRuleset(family string) *Ruleset {
	return &Ruleset{
		family:  family,
		builder: domainwf.NewBuilder(),
		rules:   make(map[domainwf.State]map[domainwf.Trigger]rule),
	}
}

// add registers one transition with its allowed roles and declared effects.
func (r *Ruleset) add(from domainwf.State, action domainwf.Trigger, to domainwf.State, roles []string, effects ...Effect) *Ruleset {
	r.builder.Configure(from).Permit(action, to)

	if _, ok := r.rules[from]; !ok {
		r.rules[from] = make(map[domainwf.Trigger]rule)
	}
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	r.rules[from][action] = rule{roles: allowed, effects: effects}
	return r
}

// Family returns the workflow family name.
func (r *Ruleset) Family() string {
	return r.family
}

// Apply validates the requested action against the current state and the
// actor's role, and returns the resulting transition. It never mutates
// anything: persistence and effect execution belong to the caller.
//
// Legality is checked before authorization, so replaying an already-applied
// action yields ErrInvalidTransition regardless of who asks.
func (r *Ruleset) Apply(current domainwf.State, action domainwf.Trigger, role string) (Transition, error) {
	machine, err := r.builder.Build(current)
	if err != nil {
		return Transition{}, fmt.Errorf("%s: %w", r.family, err)
	}

	if !machine.CanFire(action) {
		return Transition{}, domainwf.ErrInvalidTransitionf(current, action)
	}

	meta := r.rules[current][action]
	if !meta.roles[role] && role != entity.RoleAdmin {
		return Transition{}, fmt.Errorf("%w: role %s cannot fire %s on %s", ErrUnauthorized, role, action, r.family)
	}

	if err := machine.Fire(action); err != nil {
		return Transition{}, err
	}

	return Transition{
		Family:  r.family,
		Action:  action,
		From:    current,
		To:      machine.State(),
		Effects: append([]Effect(nil), meta.effects...),
	}, nil
}

// PermittedActions returns the actions legal in the given state, for
// diagnostics and API discoverability.
func (r *Ruleset) PermittedActions(current domainwf.State) []domainwf.Trigger {
	machine, err := r.builder.Build(current)
	if err != nil {
		return nil
	}
	return machine.PermittedTriggers()
}

// IsTerminal reports whether the given state has no outgoing transitions.
func (r *Ruleset) IsTerminal(current domainwf.State) bool {
	machine, err := r.builder.Build(current)
	if err != nil {
		return false
	}
	return machine.IsTerminal()
}
