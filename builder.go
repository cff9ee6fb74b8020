package hsm

// NewState creates and registers a plain (non-complex) state. It fails —
// recording a construction error and returning nil — if id is negative
// or a state with id already exists. Either hook may be nil.
func (d *Definition) NewState(id StateID, entry EntryHook, exit ExitHook) *State {
	return d.newState(id, false, SAME, entry, exit)
}

// NewComplexState creates and registers a complex state that may host
// substates. initialSub is the substate entered automatically whenever
// this state is entered; it may be SAME to suppress automatic descent.
// initialSub is not validated against the definition at build time —
// resolution is deferred to Execute.
func (d *Definition) NewComplexState(id StateID, initialSub StateID, entry EntryHook, exit ExitHook) *State {
	return d.newState(id, true, initialSub, entry, exit)
}

func (d *Definition) newState(id StateID, complex bool, initialSub StateID, entry EntryHook, exit ExitHook) *State {
	if id < 0 {
		d.recordError(newConstructionError(ErrCodeInvalidStateID, id, 0, "state id must be non-negative"))
		return nil
	}
	if _, exists := d.states[id]; exists {
		d.recordError(newConstructionError(ErrCodeDuplicateState, id, 0, "state id already exists"))
		return nil
	}

	s := &State{
		id:         id,
		complex:    complex,
		initialSub: initialSub,
		entry:      entry,
		exit:       exit,
	}
	d.states[id] = s
	return s
}

// AnyState returns the definition's synthetic any-state, creating it on
// first call. The call is idempotent: a second call returns the same
// handle rather than failing.
func (d *Definition) AnyState() *State {
	if d.anyState == nil {
		d.anyState = &State{id: ANY}
	}
	return d.anyState
}

// Transition creates a normal transition from s, firing on event, gated
// by an optional guard (nil means unconditional), targeting target, and
// running actions in order when it fires. It is rejected — recording a
// construction error, returning nil — only if event is CatchEvent,
// target is ANY, or s is nil. s may be the any-state: a plain (non-sub) transition on
// the any-state is allowed, since it is TransitionSub that restricts what
// the any-state may own.
//
// Appended to the tail of s's transition list; insertion order is
// evaluation order.
func (d *Definition) Transition(s *State, event EventID, guard Guard, target StateID, actions ...Action) *Transition {
	var guards []Guard
	if guard != nil {
		guards = []Guard{guard}
	}
	return d.addTransition(s, event, guards, target, false, actions)
}

// TransitionMulti is like Transition but accepts any number of guards,
// all of which must evaluate truthy for the transition to fire.
func (d *Definition) TransitionMulti(s *State, event EventID, guards []Guard, target StateID, actions ...Action) *Transition {
	return d.addTransition(s, event, guards, target, false, actions)
}

// TransitionSub is identical to Transition except the resulting
// transition is flagged as a sub-transition: firing it nests target
// inside the owning state s rather than replacing it. A sub-transition
// targeting SAME or PARENT is rejected at build time, since their
// interaction with nesting is undefined (see spec design notes); so is a
// sub-transition created on the any-state, since any-state transitions
// are never meaningfully nestable.
func (d *Definition) TransitionSub(s *State, event EventID, guard Guard, target StateID, actions ...Action) *Transition {
	if target == SAME || target == PARENT {
		d.recordError(newConstructionError(ErrCodeUnsupportedSub, stateIDOf(s), event,
			"sub-transition target must be a concrete state id, not SAME or PARENT"))
		return nil
	}
	if s != nil && s.id == ANY {
		d.recordError(newConstructionError(ErrCodeUnsupportedSub, ANY, event,
			"any-state transitions cannot be sub-transitions"))
		return nil
	}
	var guards []Guard
	if guard != nil {
		guards = []Guard{guard}
	}
	return d.addTransition(s, event, guards, target, true, actions)
}

func (d *Definition) addTransition(s *State, event EventID, guards []Guard, target StateID, isSub bool, actions []Action) *Transition {
	if event == CatchEvent {
		d.recordError(newConstructionError(ErrCodeReservedEvent, stateIDOf(s), event,
			"CATCH cannot be used as an application event id"))
		return nil
	}
	if target == ANY {
		d.recordError(newConstructionError(ErrCodeInvalidTarget, stateIDOf(s), event,
			"ANY cannot be a transition target"))
		return nil
	}
	if s == nil {
		d.recordError(newConstructionError(ErrCodeInvalidStateID, 0, event, "transition owner state is nil"))
		return nil
	}

	t := &Transition{
		owner:   s,
		event:   event,
		guards:  append([]Guard(nil), guards...),
		target:  target,
		isSub:   isSub,
		actions: append([]Action(nil), actions...),
	}
	s.transitions = append(s.transitions, t)
	return t
}

// Catch creates the single catch transition for s, with the given target
// and actions run in sequence (their return values ignored). A catch
// transition never has guards. If s already has a catch transition, this
// call fails silently — it does not record a construction error, mirroring
// the original engine's behavior — and returns nil.
func (d *Definition) Catch(s *State, target StateID, actions ...Action) *Transition {
	if s == nil || s.catch != nil {
		return nil
	}
	t := &Transition{
		owner:   s,
		event:   CatchEvent,
		target:  target,
		actions: append([]Action(nil), actions...),
	}
	s.catch = t
	return t
}

func stateIDOf(s *State) StateID {
	if s == nil {
		return 0
	}
	return s.id
}
