package hsm

import "fmt"

// Observer is an optional, engine-owned side channel for tracing and
// logging. It has no influence on dispatch, matching, or the cursor:
// every method is a pure notification. Attach observers only during
// construction, before any object begins executing against the
// definition (see the concurrency contract in the package-level
// documentation).
type Observer interface {
	// OnEnter is called after a state's entry hook has run (or would
	// have run, if nil) as part of the entry protocol.
	OnEnter(d *Definition, state StateID)
	// OnExit is called after a state's exit hook has run (or would have
	// run, if nil) as part of the exit protocol.
	OnExit(d *Definition, state StateID)
	// OnTransition is called once a transition has fully committed,
	// immediately before Execute returns NewState or NoChange.
	OnTransition(d *Definition, from, to StateID, event EventID)
	// OnGuardRejected is called whenever a guard evaluates falsy and the
	// engine moves on to the next candidate transition.
	OnGuardRejected(d *Definition, state StateID, event EventID)
	// OnActionFailure is called when an action returns falsy, just before
	// the engine adopts the catch path or gives up with ActionFailure.
	OnActionFailure(d *Definition, state StateID, event EventID)
}

// AddObserver attaches an observer to the definition. Observers are
// notified in attachment order.
func (d *Definition) AddObserver(o Observer) {
	if o != nil {
		d.observers = append(d.observers, o)
	}
}

func (d *Definition) notifyEnter(state StateID) {
	for _, o := range d.observers {
		safeNotify(func() { o.OnEnter(d, state) })
	}
}

func (d *Definition) notifyExit(state StateID) {
	for _, o := range d.observers {
		safeNotify(func() { o.OnExit(d, state) })
	}
}

func (d *Definition) notifyTransition(from, to StateID, event EventID) {
	for _, o := range d.observers {
		safeNotify(func() { o.OnTransition(d, from, to, event) })
	}
}

func (d *Definition) notifyGuardRejected(state StateID, event EventID) {
	for _, o := range d.observers {
		safeNotify(func() { o.OnGuardRejected(d, state, event) })
	}
}

func (d *Definition) notifyActionFailure(state StateID, event EventID) {
	for _, o := range d.observers {
		safeNotify(func() { o.OnActionFailure(d, state, event) })
	}
}

// safeNotify isolates a panicking observer from the dispatch loop: the
// engine's own invariants (cursor mutation order, return value) must
// never depend on observer behavior.
func safeNotify(f func()) {
	defer func() { recover() }()
	f()
}

// BaseObserver provides no-op implementations of every Observer method,
// so callers can embed it and override only what they need.
type BaseObserver struct{}

func (BaseObserver) OnEnter(*Definition, StateID)                        {}
func (BaseObserver) OnExit(*Definition, StateID)                         {}
func (BaseObserver) OnTransition(*Definition, StateID, StateID, EventID) {}
func (BaseObserver) OnGuardRejected(*Definition, StateID, EventID)       {}
func (BaseObserver) OnActionFailure(*Definition, StateID, EventID)       {}

// LogLevel controls how much LoggingObserver reports.
type LogLevel int

const (
	// LogErrors reports only action failures.
	LogErrors LogLevel = iota
	// LogTransitions reports action failures and committed transitions.
	LogTransitions
	// LogVerbose additionally reports individual enter/exit/guard events.
	LogVerbose
)

// LoggingObserver is a convenience Observer that formats events and hands
// each formatted line to a caller-supplied func(string) sink (which may,
// for example, write the line to an *os.File or other io.Writer). It depends on nothing beyond fmt, matching the teacher
// codebase's own logging observer, which likewise never reaches for an
// external logging package.
type LoggingObserver struct {
	Level  LogLevel
	Prefix string
	Sink   func(string)
}

// NewLoggingObserver creates a LoggingObserver that writes formatted
// lines to sink.
func NewLoggingObserver(level LogLevel, prefix string, sink func(string)) *LoggingObserver {
	return &LoggingObserver{Level: level, Prefix: prefix, Sink: sink}
}

func (o *LoggingObserver) emit(format string, args ...any) {
	if o.Sink == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if o.Prefix != "" {
		line = fmt.Sprintf("[%s] %s", o.Prefix, line)
	}
	o.Sink(line)
}

func (o *LoggingObserver) OnEnter(d *Definition, state StateID) {
	if o.Level >= LogVerbose {
		o.emit("enter state=%d machine=%s", state, d.ID())
	}
}

func (o *LoggingObserver) OnExit(d *Definition, state StateID) {
	if o.Level >= LogVerbose {
		o.emit("exit state=%d machine=%s", state, d.ID())
	}
}

func (o *LoggingObserver) OnTransition(d *Definition, from, to StateID, event EventID) {
	if o.Level >= LogTransitions {
		o.emit("transition %d->%d on event=%d machine=%s", from, to, event, d.ID())
	}
}

func (o *LoggingObserver) OnGuardRejected(d *Definition, state StateID, event EventID) {
	if o.Level >= LogVerbose {
		o.emit("guard rejected state=%d event=%d machine=%s", state, event, d.ID())
	}
}

func (o *LoggingObserver) OnActionFailure(d *Definition, state StateID, event EventID) {
	if o.Level >= LogErrors {
		o.emit("action failure state=%d event=%d machine=%s", state, event, d.ID())
	}
}
