package hsm

import "testing"

// call-center style domain ids, matching the spec's own scenario family.
const (
	stIdle      StateID = 1
	stRing      StateID = 2
	stDial      StateID = 3
	stOrig      StateID = 4
	stErr       StateID = 5
	stOrigNest  StateID = 6
	stDialStart StateID = 7

	evInbound    EventID = 10
	evTimeout    EventID = 11
	evErr        EventID = 99
	evStart      EventID = 11
	evErrorTone  EventID = 12
	evGeneric    EventID = 10
)

func TestExecute_SimpleTransition(t *testing.T) {
	d := NewDefinition()
	called := 0
	a := func(ctx, msg any) bool { called++; return true }

	d.NewState(stIdle, nil, nil)
	d.NewState(stRing, nil, nil)
	d.Transition(d.State(stIdle), evInbound, nil, stRing, a)

	var cur Cursor
	SetStart(&cur, stIdle, 0)

	result := Execute(d, &cur, evInbound, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	if called != 1 {
		t.Fatalf("expected action called once, got %d", called)
	}
	if CurrentState(&cur) != stRing {
		t.Fatalf("expected current=%d, got %d", stRing, CurrentState(&cur))
	}
	if PreviousState(&cur) != stIdle {
		t.Fatalf("expected previous=%d, got %d", stIdle, PreviousState(&cur))
	}
	if NestDepth(&cur) != 0 {
		t.Fatalf("expected nestDepth=0, got %d", NestDepth(&cur))
	}
}

func TestExecute_GuardFiltering(t *testing.T) {
	d := NewDefinition()
	ringCalled, toneCalled := 0, 0
	hasDigits := func(ctx, msg any) bool { return false }
	ring := func(ctx, msg any) bool { ringCalled++; return true }
	tone := func(ctx, msg any) bool { toneCalled++; return true }

	d.NewState(stDial, nil, nil)
	d.NewState(stOrig, nil, nil)
	d.NewState(stErr, nil, nil)
	dial := d.State(stDial)
	d.Transition(dial, evTimeout, hasDigits, stOrig, ring)
	d.Transition(dial, evTimeout, nil, stErr, tone)

	var cur Cursor
	SetStart(&cur, stDial, 0)

	result := Execute(d, &cur, evTimeout, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	if ringCalled != 0 {
		t.Fatalf("expected ring not called, got %d", ringCalled)
	}
	if toneCalled != 1 {
		t.Fatalf("expected tone called once, got %d", toneCalled)
	}
	if CurrentState(&cur) != stErr {
		t.Fatalf("expected current=%d, got %d", stErr, CurrentState(&cur))
	}
}

func TestExecute_ActionFailureTriggersCatch(t *testing.T) {
	d := NewDefinition()
	failCalled, hangupCalled := 0, 0
	failing := func(ctx, msg any) bool { failCalled++; return false }
	hangup := func(ctx, msg any) bool { hangupCalled++; return true }

	d.NewState(stIdle, nil, nil)
	d.NewState(stRing, nil, nil)
	d.NewState(stErr, nil, nil)
	idle := d.State(stIdle)
	d.Transition(idle, evGeneric, nil, stRing, failing)
	d.Catch(idle, stErr, hangup)

	var cur Cursor
	SetStart(&cur, stIdle, 0)

	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	if failCalled != 1 {
		t.Fatalf("expected failing action called once, got %d", failCalled)
	}
	if hangupCalled != 1 {
		t.Fatalf("expected hangup called once, got %d", hangupCalled)
	}
	if CurrentState(&cur) != stErr {
		t.Fatalf("expected current=%d, got %d", stErr, CurrentState(&cur))
	}
}

func TestExecute_ActionFailureWithoutCatch(t *testing.T) {
	d := NewDefinition()
	failing := func(ctx, msg any) bool { return false }

	d.NewState(stIdle, nil, nil)
	d.NewState(stRing, nil, nil)
	d.Transition(d.State(stIdle), evGeneric, nil, stRing, failing)

	var cur Cursor
	SetStart(&cur, stIdle, 0)
	before := cur

	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != ActionFailure {
		t.Fatalf("expected ACTION_FAILURE, got %v", result)
	}
	if cur != before {
		t.Fatalf("expected cursor unchanged on ACTION_FAILURE, got %+v want %+v", cur, before)
	}
}

func TestExecute_AnyStateFallback(t *testing.T) {
	d := NewDefinition()
	idleCalled := 0
	idleAction := func(ctx, msg any) bool { idleCalled++; return true }

	d.NewState(stIdle, nil, nil)
	d.NewState(stErr, nil, nil)
	d.Transition(d.AnyState(), evErr, nil, stErr, idleAction)

	var cur Cursor
	SetStart(&cur, stIdle, 0)

	result := Execute(d, &cur, evErr, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	if CurrentState(&cur) != stErr {
		t.Fatalf("expected current=%d, got %d", stErr, CurrentState(&cur))
	}
	if idleCalled != 1 {
		t.Fatalf("expected fallback action called once, got %d", idleCalled)
	}
}

func TestExecute_HierarchicalEntryWithInitialSubstate(t *testing.T) {
	d := NewDefinition()
	var order []string
	d.NewState(stIdle, nil, nil)
	d.NewComplexState(stOrigNest, stDialStart,
		func(ctx any) { order = append(order, "ORIG.entry") }, nil)
	d.NewState(stDialStart,
		func(ctx any) { order = append(order, "DIAL_START.entry") }, nil)
	d.Transition(d.State(stIdle), evStart, nil, stOrigNest)

	var cur Cursor
	SetStart(&cur, stIdle, 0)

	result := Execute(d, &cur, evStart, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	want := []string{"ORIG.entry", "DIAL_START.entry"}
	if len(order) != 2 || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("expected entry order %v, got %v", want, order)
	}
	if NestDepth(&cur) != 1 || cur.nest[0] != stOrigNest || cur.nest[1] != stDialStart {
		t.Fatalf("unexpected cursor: %+v", cur)
	}
}

func TestExecute_ParentBubblingAndExitOrder(t *testing.T) {
	d := NewDefinition()
	var order []string
	d.NewState(stIdle,
		func(ctx any) { order = append(order, "IDLE.entry") }, nil)
	orig := d.NewComplexState(stOrigNest, stDialStart, nil,
		func(ctx any) { order = append(order, "ORIG.exit") })
	dialStart := d.NewState(stDialStart, nil,
		func(ctx any) { order = append(order, "DIAL_START.exit") })
	_ = dialStart
	d.Transition(orig, evErrorTone, nil, stIdle)

	var cur Cursor
	cur.nest[0] = stOrigNest
	cur.nest[1] = stDialStart
	cur.nestDepth = 1
	cur.previous = 0

	result := Execute(d, &cur, evErrorTone, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	want := []string{"DIAL_START.exit", "ORIG.exit", "IDLE.entry"}
	if len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	if CurrentState(&cur) != stIdle || NestDepth(&cur) != 0 || PreviousState(&cur) != stDialStart {
		t.Fatalf("unexpected final cursor: %+v", cur)
	}
}

func TestExecute_ReturnToParent(t *testing.T) {
	d := NewDefinition()
	exitCalled := 0
	parentExitCalled := 0
	orig := d.NewComplexState(stOrigNest, stDialStart, nil,
		func(ctx any) { parentExitCalled++ })
	dialStart := d.NewState(stDialStart, nil,
		func(ctx any) { exitCalled++ })
	_ = orig
	d.Transition(dialStart, evGeneric, nil, PARENT)

	var cur Cursor
	cur.nest[0] = stOrigNest
	cur.nest[1] = stDialStart
	cur.nestDepth = 1

	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	if exitCalled != 1 {
		t.Fatalf("expected DIAL_START.exit called once, got %d", exitCalled)
	}
	if parentExitCalled != 0 {
		t.Fatalf("expected ORIG.exit not called, got %d", parentExitCalled)
	}
	if NestDepth(&cur) != 0 || CurrentState(&cur) != stOrigNest {
		t.Fatalf("unexpected final cursor: %+v", cur)
	}
}

func TestExecute_NoTransitionLeavesCursorUnchanged(t *testing.T) {
	d := NewDefinition()
	d.NewState(stIdle, nil, nil)

	var cur Cursor
	SetStart(&cur, stIdle, 0)
	before := cur

	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != NoTransition {
		t.Fatalf("expected NO_TRANSITION, got %v", result)
	}
	if cur != before {
		t.Fatalf("expected cursor unchanged, got %+v want %+v", cur, before)
	}
}

func TestExecute_SameTargetReturnsNoChange(t *testing.T) {
	d := NewDefinition()
	called := 0
	d.NewState(stIdle, nil, nil)
	d.Transition(d.State(stIdle), evGeneric, nil, SAME, func(ctx, msg any) bool { called++; return true })

	var cur Cursor
	SetStart(&cur, stIdle, 0)
	before := cur

	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != NoChange {
		t.Fatalf("expected NO_CHANGE, got %v", result)
	}
	if called != 1 {
		t.Fatalf("expected action called once, got %d", called)
	}
	if cur != before {
		t.Fatalf("expected cursor unchanged on NO_CHANGE, got %+v want %+v", cur, before)
	}
}

func TestExecute_CatchEventIsRejected(t *testing.T) {
	d := NewDefinition()
	d.NewState(stIdle, nil, nil)

	var cur Cursor
	SetStart(&cur, stIdle, 0)

	if result := Execute(d, &cur, CatchEvent, nil, nil); result != NoTransition {
		t.Fatalf("expected NO_TRANSITION for CATCH event, got %v", result)
	}
}

func TestExecute_CatchAfterFailedSubTransitionRunsNormalExitEntry(t *testing.T) {
	d := NewDefinition()
	var order []string

	idle := d.NewState(stIdle,
		func(ctx any) { order = append(order, "IDLE.entry") },
		func(ctx any) { order = append(order, "IDLE.exit") })
	d.NewState(stErr,
		func(ctx any) { order = append(order, "ERR.entry") }, nil)
	d.NewState(stRing, nil, nil)

	failing := func(ctx, msg any) bool { return false }
	d.TransitionSub(idle, evGeneric, nil, stRing, failing)
	d.Catch(idle, stErr, func(ctx, msg any) bool { return true })

	var cur Cursor
	SetStart(&cur, stIdle, 0)

	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != NewState {
		t.Fatalf("expected NEW_STATE, got %v", result)
	}
	// The failed transition was a sub-transition, but the catch that
	// recovers from it is never one: IDLE must be exited normally rather
	// than treating ERR as nested beneath it.
	want := []string{"IDLE.exit", "ERR.entry"}
	if len(order) != 2 || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	if NestDepth(&cur) != 0 || CurrentState(&cur) != stErr {
		t.Fatalf("unexpected cursor after catch from failed sub-transition: %+v", cur)
	}
}

func TestExecute_InternalFailureOnNestOverflow(t *testing.T) {
	d := NewDefinition()
	var ids []StateID
	for i := StateID(0); i < MaxNestDepth+1; i++ {
		ids = append(ids, i)
	}
	for i, id := range ids {
		next := SAME
		if i+1 < len(ids) {
			next = ids[i+1]
		}
		if i+1 < len(ids) {
			d.NewComplexState(id, next, nil, nil)
		} else {
			d.NewState(id, nil, nil)
		}
	}

	d.NewState(100, nil, nil)
	d.Transition(d.State(100), evGeneric, nil, ids[0])

	var cur Cursor
	SetStart(&cur, 100, 0)
	result := Execute(d, &cur, evGeneric, nil, nil)

	if result != InternalFailure {
		t.Fatalf("expected INTERNAL_FAILURE descending a chain of %d nested states, got %v", len(ids), result)
	}
}
