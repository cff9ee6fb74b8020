package hsm

import "github.com/google/uuid"

// StateID identifies a state within a single Definition. Application
// states use non-negative ids; negative ids are reserved sentinels (see
// SAME, PARENT, ANY below).
type StateID int

// EventID identifies an event. Application events use non-negative ids;
// CatchEvent is the single reserved negative event id.
type EventID int

// Reserved sentinel state ids. None of these may be used as an
// application-chosen state id.
const (
	// SAME means "no state change" when used as a transition target.
	SAME StateID = -1
	// PARENT means "ascend one nest level" when used as a transition target.
	PARENT StateID = -2
	// ANY identifies the synthetic any-state pseudo-state.
	ANY StateID = -3
)

// CatchEvent is the reserved event id for a state's catch transition. It
// can never be used as an ordinary application event.
const CatchEvent EventID = -1

// MaxNestDepth bounds the active-state nest a Cursor may hold. It is part
// of the engine's contract, not a tunable: Execute fails closed
// (InternalFailure) rather than growing the nest past this depth.
const MaxNestDepth = 4

// Guard is a predicate gating a transition. Guards must be pure with
// respect to machine state; side effects on application data are allowed
// but discouraged.
type Guard func(ctx any, message any) bool

// Action is an effectful callback run as part of a firing transition. A
// falsy return from an action in a normal (non-catch) transition aborts
// the remaining actions in that transition and triggers the catch path.
type Action func(ctx any, message any) bool

// EntryHook runs when a state is entered.
type EntryHook func(ctx any)

// ExitHook runs when a state is exited.
type ExitHook func(ctx any)

// Transition is attached to exactly one owning State. Insertion order
// into the owner's transition list is the evaluation order and is
// semantically significant: the first transition whose event id matches
// and whose guards all pass wins.
type Transition struct {
	owner   *State
	event   EventID
	guards  []Guard
	target  StateID
	isSub   bool
	actions []Action
}

// Event returns the event id this transition matches.
func (t *Transition) Event() EventID { return t.event }

// Target returns this transition's target state id.
func (t *Transition) Target() StateID { return t.target }

// IsSub reports whether firing this transition nests the target inside
// the owning state rather than replacing it.
func (t *Transition) IsSub() bool { return t.isSub }

func (t *Transition) matches(event EventID, ctx, message any) bool {
	if t.event != event {
		return false
	}
	for _, g := range t.guards {
		if g == nil {
			continue
		}
		if !g(ctx, message) {
			return false
		}
	}
	return true
}

// State is identified by a caller-chosen non-negative integer id, unique
// within its Definition. A complex state may host substates and, unless
// its initial substate is SAME, automatically descends into one on
// entry.
type State struct {
	id         StateID
	entry       EntryHook
	exit        ExitHook
	complex     bool
	initialSub  StateID
	transitions []*Transition
	catch       *Transition
}

// ID returns the state's id.
func (s *State) ID() StateID { return s.id }

// IsComplex reports whether this state may host substates.
func (s *State) IsComplex() bool { return s.complex }

// InitialSubState returns the substate entered automatically when this
// complex state is entered, or SAME if there is no automatic descent.
// The value is meaningless for non-complex states.
func (s *State) InitialSubState() StateID { return s.initialSub }

// Transitions returns this state's normal transitions in insertion
// (evaluation) order. The returned slice must not be mutated.
func (s *State) Transitions() []*Transition { return s.transitions }

// Catch returns this state's catch transition, or nil if none was
// created.
func (s *State) Catch() *Transition { return s.catch }

// Definition is the immutable (post-construction) graph of states,
// transitions, guards and actions that Execute reads from. It is built
// once via NewDefinition and the builder methods on Definition, and
// may subsequently be shared read-only across any number of objects and
// goroutines, each driving its own Cursor.
type Definition struct {
	id        uuid.UUID
	states    map[StateID]*State
	anyState  *State
	errors    []error
	observers []Observer
}

// NewDefinition returns a fresh, empty machine definition ready for
// construction.
func NewDefinition() *Definition {
	return &Definition{
		id:     uuid.New(),
		states: make(map[StateID]*State),
	}
}

// ID returns the definition's identity, stamped at construction time for
// use in diagnostics, logging, and metrics. It has no bearing on
// dispatch semantics.
func (d *Definition) ID() uuid.UUID { return d.id }

// State looks up a state (or the any-state, via ANY) by id. It returns
// nil if no such state exists.
func (d *Definition) State(id StateID) *State {
	if id == ANY {
		return d.anyState
	}
	return d.states[id]
}

// StateIDs returns the ids of every concrete (non-any) state in
// ascending order, for introspection and tooling.
func (d *Definition) StateIDs() []StateID {
	ids := make([]StateID, 0, len(d.states))
	for id := range d.states {
		ids = append(ids, id)
	}
	// ascending insertion sort; state counts in this domain are small and
	// this keeps verifier/tooling output deterministic without pulling in
	// sort for a handful of elements.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// Transitions returns the normal transitions owned by the state with the
// given id, or nil if no such state exists. A convenience wrapper around
// State.Transitions for callers that only have a Definition and an id.
func (d *Definition) Transitions(id StateID) []*Transition {
	s := d.State(id)
	if s == nil {
		return nil
	}
	return s.Transitions()
}

// IsComplex reports whether the state with the given id may host
// substates. It returns false if no such state exists.
func (d *Definition) IsComplex(id StateID) bool {
	s := d.State(id)
	return s != nil && s.IsComplex()
}

// Destroy releases the definition's internal graph. After Destroy,
// handles obtained from this definition (States, Transitions) must not
// be used. The engine has no external resources to release beyond
// memory, so Destroy simply drops the definition's references so the
// garbage collector can reclaim them.
func (d *Definition) Destroy() {
	d.states = nil
	d.anyState = nil
	d.errors = nil
	d.observers = nil
}

func (d *Definition) recordError(err *ConstructionError) {
	d.errors = append(d.errors, err)
}

// HasCreateError reports whether any builder call on this definition has
// failed since construction began. Clients should consult this after
// finishing construction; Execute on a definition with construction
// errors is well-defined but may simply treat the missing/malformed
// piece as a non-match.
func (d *Definition) HasCreateError() bool {
	return len(d.errors) > 0
}

// Errors returns every construction error recorded on this definition, in
// the order they occurred.
func (d *Definition) Errors() []error {
	out := make([]error, len(d.errors))
	copy(out, d.errors)
	return out
}
