package entity

// Action is a reducer input. Type is the tag reducers switch on and the
// name observers see.
type Action interface {
	Type() string
}

// Reducer computes the next state from the current one. State values are
// copied in and out, so a reducer never mutates the previous state.
type Reducer[S any, A Action] func(state S, action A) S

// Observer is notified after every dispatched action.
type Observer[S any, A Action] func(state S, action A)

// Order is a saved action plus the command to re-issue once it completes.
type Order[A Action, C any] struct {
	Action A
	Next   *C
}

// Machine runs the dispatch contract shared by units and cities: a pure
// reducer over a value state, an action queue of length at most one, and a
// deferred next command for multi-turn orders.
type Machine[S any, A Action, C any] struct {
	state    S
	reduce   Reducer[S, A]
	observer Observer[S, A]
	queued   *Order[A, C]
	next     *C
}

func NewMachine[S any, A Action, C any](initial S, reduce Reducer[S, A]) *Machine[S, A, C] {
	return &Machine[S, A, C]{state: initial, reduce: reduce}
}

// Observe sets the post-dispatch observer.
func (m *Machine[S, A, C]) Observe(o Observer[S, A]) { m.observer = o }

// State returns a copy of the current state.
func (m *Machine[S, A, C]) State() S { return m.state }

// Dispatch reduces action into a new state, records next as the deferred
// command (nil clears it) and notifies the observer.
func (m *Machine[S, A, C]) Dispatch(action A, next *C) {
	m.state = m.reduce(m.state, action)
	m.next = next
	if m.observer != nil {
		m.observer(m.state, action)
	}
}

// Update dispatches action but keeps the deferred command. Used for
// changes imposed from outside such as casualties or resupply.
func (m *Machine[S, A, C]) Update(action A) {
	m.Dispatch(action, m.next)
}

// Apply reduces action without touching the deferred command and without
// notifying. Used for bookkeeping such as move-point refills.
func (m *Machine[S, A, C]) Apply(action A) {
	m.state = m.reduce(m.state, action)
}

// SaveAction queues action for end of turn, replacing any queued one, and
// makes next the deferred command straight away.
func (m *Machine[S, A, C]) SaveAction(action A, next *C) {
	m.queued = &Order[A, C]{Action: action, Next: next}
	m.next = next
}

// TakePending removes and returns the queued order.
func (m *Machine[S, A, C]) TakePending() (Order[A, C], bool) {
	if m.queued == nil {
		return Order[A, C]{}, false
	}
	o := *m.queued
	m.queued = nil
	return o, true
}

// NextCommand returns a copy of the deferred command.
func (m *Machine[S, A, C]) NextCommand() (C, bool) {
	if m.next == nil {
		var zero C
		return zero, false
	}
	return *m.next, true
}

// Cancel drops the queued action and the deferred command.
func (m *Machine[S, A, C]) Cancel() {
	m.queued = nil
	m.next = nil
}

// Busy reports whether the machine has work lined up for a later turn.
func (m *Machine[S, A, C]) Busy() bool { return m.queued != nil || m.next != nil }
