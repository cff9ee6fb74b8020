// Package hsm provides an embeddable hierarchical finite-state-machine
// engine. An application builds a machine definition once — states with
// optional entry/exit hooks, transitions keyed on events with guards and
// action chains, and nested (hierarchical) substates — and then drives
// any number of independent objects through it by feeding events into
// Execute. A definition is immutable once built and may be shared across
// goroutines as long as every object carries its own Cursor.
package hsm
