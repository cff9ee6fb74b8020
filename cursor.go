package hsm

// Cursor is the small, fixed-capacity value type an application keeps
// per object it drives through a shared Definition. It carries the
// current nest of active states (outermost at index 0, innermost at
// NestDepth) and the id of the most recently exited state. A Cursor must
// not be driven by more than one goroutine at a time, and callbacks
// invoked by Execute must not re-enter Execute on the same Cursor.
type Cursor struct {
	nest      [MaxNestDepth]StateID
	nestDepth int
	previous  StateID
}

// SetStart initializes cur to a fresh nest of depth 0 at startStateID,
// with previousStateID recorded as the previous state.
func SetStart(cur *Cursor, startStateID StateID, previousStateID StateID) {
	cur.nest[0] = startStateID
	cur.nestDepth = 0
	cur.previous = previousStateID
}

// CurrentState returns the innermost active state id.
func CurrentState(cur *Cursor) StateID {
	return cur.nest[cur.nestDepth]
}

// TopLevelState returns the outermost active state id.
func TopLevelState(cur *Cursor) StateID {
	return cur.nest[0]
}

// PreviousState returns the id recorded for the most recently exited
// state.
func PreviousState(cur *Cursor) StateID {
	return cur.previous
}

// NestDepth returns the index of the innermost active state in the nest
// stack (0 when the object is not nested inside any complex state).
func NestDepth(cur *Cursor) int {
	return cur.nestDepth
}
