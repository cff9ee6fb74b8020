package hsm

// ErrorKind classifies a single finding reported by Verify.
type ErrorKind int

const (
	// NoEntry means no transition anywhere in the definition targets this state id.
	NoEntry ErrorKind = iota
	// NoExit means this state's own transitions never lead anywhere but itself.
	NoExit
)

// String renders the error kind for log lines and test failure messages.
func (k ErrorKind) String() string {
	switch k {
	case NoEntry:
		return "NO_ENTRY"
	case NoExit:
		return "NO_EXIT"
	default:
		return "UNKNOWN"
	}
}

// Verify performs a best-effort static check over the definition and
// reports every finding to report. All NoEntry findings come first, in
// ascending state-id order; the NoExit findings follow, in the order their
// targeting transitions are scanned (owning states in ascending id order,
// each state's transitions in insertion order, then its catch transition,
// then the any-state's transitions). It returns true only if no findings
// were reported.
//
// Two passes run:
//
//  1. Unentered states: for every state with a non-negative id, scan all
//     transitions in all states; if none targets this id, report NoEntry.
//  2. Unexited targets: for every transition whose target id is
//     non-negative, require that the targeted state has at least one
//     transition leading to a different id (neither itself nor SAME);
//     otherwise report NoExit.
//
// Sentinel ids are ignored throughout. Verify does not detect
// unreachability due to guards, cycles, or nesting misuse — it is a
// static, structural check only.
func Verify(d *Definition, report func(StateID, ErrorKind)) bool {
	ok := true
	ids := d.StateIDs()

	targeted := make(map[StateID]bool)
	for _, id := range ids {
		s := d.states[id]
		for _, t := range s.transitions {
			if t.target >= 0 {
				targeted[t.target] = true
			}
		}
		if s.catch != nil && s.catch.target >= 0 {
			targeted[s.catch.target] = true
		}
	}
	if d.anyState != nil {
		for _, t := range d.anyState.transitions {
			if t.target >= 0 {
				targeted[t.target] = true
			}
		}
	}

	for _, id := range ids {
		if !targeted[id] {
			ok = false
			report(id, NoEntry)
		}
	}

	checked := make(map[StateID]bool)
	checkTarget := func(target StateID) {
		if target < 0 || checked[target] {
			return
		}
		checked[target] = true
		ts := d.states[target]
		if ts == nil {
			return
		}
		if !hasExit(ts) {
			ok = false
			report(target, NoExit)
		}
	}

	for _, id := range ids {
		s := d.states[id]
		for _, t := range s.transitions {
			checkTarget(t.target)
		}
		if s.catch != nil {
			checkTarget(s.catch.target)
		}
	}
	if d.anyState != nil {
		for _, t := range d.anyState.transitions {
			checkTarget(t.target)
		}
	}

	return ok
}

func hasExit(s *State) bool {
	for _, t := range s.transitions {
		if t.target != s.id && t.target != SAME {
			return true
		}
	}
	return false
}
