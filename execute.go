package hsm

// Result classifies the outcome of a single Execute call.
type Result int

const (
	// NewState means some transition fired and produced a different active nest.
	NewState Result = iota
	// NoChange means a transition matched and ran but ended in the same active state.
	NoChange
	// NoTransition means no transition in the current nest or the any-state matched.
	NoTransition
	// ActionFailure means an action failed and no catch transition existed.
	ActionFailure
	// InternalFailure means the nest depth would have exceeded MaxNestDepth.
	InternalFailure
)

// String renders the result for log lines and test failure messages.
func (r Result) String() string {
	switch r {
	case NewState:
		return "NEW_STATE"
	case NoChange:
		return "NO_CHANGE"
	case NoTransition:
		return "NO_TRANSITION"
	case ActionFailure:
		return "ACTION_FAILURE"
	case InternalFailure:
		return "INTERNAL_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Execute drives cur through one event against d. It reads only from d
// and mutates only cur, plus whatever the caller's guard/action/entry/exit
// callbacks mutate through ctx and message. Execute performs no
// allocation of its own.
//
// The match phase bubbles the event up the active nest from innermost to
// outermost, firing the first transition (in per-state insertion order)
// whose event id matches and whose guards all pass; a match found deeper
// in the nest preempts one found further out. If nothing in the nest
// matches, the any-state's transitions are consulted as a fallback at
// match depth 0. The action phase then runs the matched transition's
// actions in order; a falsy action aborts the chain and, if the owning
// state has a catch transition, hands off to it (running all of its
// actions regardless of their return values) — otherwise Execute returns
// ActionFailure with cur untouched. Finally the state-change phase runs
// the exit/entry protocol: exits fire innermost-to-outermost down to the
// match depth (or not at all for a sub-transition, which instead nests
// the target beneath the owning state), then entries fire
// outermost-to-innermost, automatically descending into a complex
// state's initial substate when one is configured.
func Execute(d *Definition, cur *Cursor, event EventID, ctx any, message any) Result {
	if event == CatchEvent {
		return NoTransition
	}

	matched, matchDepth, ok := matchTransition(d, cur, event, ctx, message)
	if !ok {
		return NoTransition
	}

	isSub := matched.isSub
	target := matched.target

	if !runActions(matched.actions, ctx, message) {
		owner := matched.owner
		d.notifyActionFailure(stateIDOf(owner), event)
		if owner == nil || owner.catch == nil {
			return ActionFailure
		}
		catch := owner.catch
		for _, a := range catch.actions {
			if a != nil {
				a(ctx, message)
			}
		}
		// A catch transition is never a sub-transition regardless of
		// whether the transition it recovers from was one.
		target = catch.target
		isSub = false
	} else if target == SAME {
		d.notifyTransition(CurrentState(cur), CurrentState(cur), event)
		return NoChange
	}

	return applyStateChange(d, cur, event, target, matchDepth, isSub, ctx)
}

// matchTransition implements the §4.4.1 match phase: bubble from
// innermost to outermost, then fall back to the any-state.
func matchTransition(d *Definition, cur *Cursor, event EventID, ctx, message any) (*Transition, int, bool) {
	for depth := cur.nestDepth; depth >= 0; depth-- {
		s := d.states[cur.nest[depth]]
		if s == nil {
			return nil, 0, false
		}
		if t, found := firstMatch(d, s, event, ctx, message); found {
			return t, depth, true
		}
	}

	if d.anyState != nil {
		if t, found := firstMatch(d, d.anyState, event, ctx, message); found {
			return t, 0, true
		}
	}

	return nil, 0, false
}

func firstMatch(d *Definition, s *State, event EventID, ctx, message any) (*Transition, bool) {
	for _, t := range s.transitions {
		if t.event != event {
			continue
		}
		if !t.matches(event, ctx, message) {
			d.notifyGuardRejected(s.id, event)
			continue
		}
		return t, true
	}
	return nil, false
}

func runActions(actions []Action, ctx, message any) bool {
	for _, a := range actions {
		if a == nil {
			continue
		}
		if !a(ctx, message) {
			return false
		}
	}
	return true
}

// applyStateChange implements the §4.4.3 state-change phase.
func applyStateChange(d *Definition, cur *Cursor, event EventID, target StateID, matchDepth int, isSub bool, ctx any) Result {
	cur.previous = cur.nest[cur.nestDepth]

	if isSub {
		newDepth := cur.nestDepth + 1
		if newDepth >= MaxNestDepth {
			return InternalFailure
		}
		cur.nestDepth = newDepth
	} else {
		for depth := cur.nestDepth; depth >= matchDepth; depth-- {
			id := cur.nest[depth]
			if s := d.states[id]; s != nil && s.exit != nil {
				s.exit(ctx)
			}
			d.notifyExit(id)
		}
		if target == PARENT {
			if cur.nestDepth > 0 {
				cur.nestDepth--
			}
		} else {
			cur.nestDepth = matchDepth
		}
	}

	if target == PARENT {
		d.notifyTransition(cur.previous, CurrentState(cur), event)
		return NewState
	}

	for {
		cur.nest[cur.nestDepth] = target
		s := d.states[target]
		if s == nil {
			break
		}
		if s.entry != nil {
			s.entry(ctx)
		}
		d.notifyEnter(target)

		if s.complex && s.initialSub != SAME {
			newDepth := cur.nestDepth + 1
			if newDepth >= MaxNestDepth {
				return InternalFailure
			}
			cur.nestDepth = newDepth
			target = s.initialSub
			continue
		}
		break
	}

	d.notifyTransition(cur.previous, CurrentState(cur), event)
	return NewState
}
