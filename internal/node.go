package internal

import (
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
)

// Executor runs dispatched callbacks, usually on another goroutine.
type Executor interface {
	Dispatch(fn func())
}

// State is the lifecycle state of a node.
type State uint8

const (
	StateActive State = iota
	StateCompleted
	StateErrored
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	case StateTornDown:
		return "torn down"
	default:
		return "unknown"
	}
}

// Node is the base observable unit: it delivers values, then at most one
// completion or error, to its registered handlers.
//
// Nodes are not safe for concurrent use. A graph of nodes is driven by a single
// logical thread of control; producers on other goroutines must serialize
// through an Executor first.
type Node struct {
	id    uuid.UUID
	flags flags
	err   error

	// last handler id handed out
	seq uint64

	values    []handler[ValueFunc]
	completes []handler[DoneFunc]
	errs      []handler[ErrorFunc]

	executor Executor

	// rewrites an incoming event before delivery, returning false suppresses it
	transform func(values []any) ([]any, bool)

	// most recent delivered event, kept only when FlagRetains is set
	latest []any

	// run once, in order, when the node is torn down
	cleanups []func()

	// chained nodes that do not outlive this one
	dependents []handler[DoneFunc]

	// mirrors FlagCancelled for callbacks running on executor goroutines
	cancelled atomic.Bool
}

func NewNode() *Node {
	return &Node{id: uuid.New()}
}

// newRetainingNode creates a node replaying its latest event to late listeners.
func newRetainingNode() *Node {
	n := NewNode()
	n.flags.set(FlagRetains)
	return n
}

func (n *Node) ID() uuid.UUID {
	return n.id
}

func (n *Node) State() State {
	switch {
	case n.flags.has(FlagCompleted):
		return StateCompleted
	case n.flags.has(FlagErrored):
		return StateErrored
	case n.flags.has(FlagTornDown):
		return StateTornDown
	default:
		return StateActive
	}
}

// Err returns the error the node failed with, if any.
func (n *Node) Err() error {
	return n.err
}

// Latest returns the last delivered event of a retaining node.
func (n *Node) Latest() ([]any, bool) {
	if !n.flags.has(FlagHasLatest) {
		return nil, false
	}

	return slices.Clone(n.latest), true
}

// Retains reports whether late listeners receive the latest event.
func (n *Node) Retains() bool {
	return n.flags.has(FlagRetains)
}

func (n *Node) SetExecutor(e Executor) {
	if l, ok := e.(Laner); ok {
		e = l.Lane()
	}

	n.executor = e
}

func (n *Node) dispatch(fn func()) {
	if n.executor != nil {
		n.executor.Dispatch(fn)
		return
	}

	fn()
}

func (n *Node) nextID() uint64 {
	n.seq++
	return n.seq
}

// Listen registers a value handler, either fn or target.
// A retaining node immediately replays its latest event to the new handler.
func (n *Node) Listen(fn ValueFunc, target *Node) uint64 {
	h := newHandler(n.nextID(), fn, fn != nil, target)
	if n.flags.terminal() {
		return h.id
	}

	n.values = append(n.values, h)

	if n.flags.has(FlagHasLatest) {
		n.deliverValue(h, n.latest)
	}

	return h.id
}

// OnComplete registers a completion handler, firing it at once if the node already completed.
func (n *Node) OnComplete(fn DoneFunc, target *Node) uint64 {
	h := newHandler(n.nextID(), fn, fn != nil, target)

	switch {
	case n.flags.has(FlagCompleted):
		n.deliverComplete(h)
	case !n.flags.terminal():
		n.completes = append(n.completes, h)
	}

	return h.id
}

// OnError registers an error handler, firing it at once with the stored error if the node already failed.
func (n *Node) OnError(fn ErrorFunc, target *Node) uint64 {
	h := newHandler(n.nextID(), fn, fn != nil, target)

	switch {
	case n.flags.has(FlagErrored):
		n.deliverError(h, n.err)
	case !n.flags.terminal():
		n.errs = append(n.errs, h)
	}

	return h.id
}

// Chain forwards every event of n into target. The three registrations share
// the returned id, and target is cancelled when n is torn down.
func (n *Node) Chain(target *Node) uint64 {
	id := n.nextID()

	if !n.flags.terminal() {
		n.dependents = append(n.dependents, newHandler[DoneFunc](id, nil, false, target))
		n.values = append(n.values, newHandler[ValueFunc](id, nil, false, target))
		n.completes = append(n.completes, newHandler[DoneFunc](id, nil, false, target))
		n.errs = append(n.errs, newHandler[ErrorFunc](id, nil, false, target))
	}

	switch {
	case n.flags.has(FlagCompleted):
		target.Complete()
	case n.flags.has(FlagErrored):
		target.Fail(n.err)
	case n.flags.has(FlagTornDown):
		target.Cancel()
	case n.flags.has(FlagHasLatest):
		target.Emit(n.latest...)
	}

	return id
}

// Unlisten removes every handler registered under id.
func (n *Node) Unlisten(id uint64) {
	n.values = withoutID(n.values, id)
	n.completes = withoutID(n.completes, id)
	n.errs = withoutID(n.errs, id)
	n.dependents = withoutID(n.dependents, id)
}

// Listeners returns the number of registered value handlers.
func (n *Node) Listeners() int {
	return len(n.values)
}

// OnTeardown adds a hook run once when the node is torn down.
// If the node is already torn down the hook runs immediately.
func (n *Node) OnTeardown(fn func()) {
	if n.flags.has(FlagTornDown) {
		fn()
		return
	}

	n.cleanups = append(n.cleanups, fn)
}

// Emit delivers an event to the value handlers in registration order.
// It is a no-op once the node is terminal.
func (n *Node) Emit(values ...any) {
	if n.flags.terminal() {
		return
	}

	if n.transform != nil {
		var ok bool
		if values, ok = n.transform(values); !ok {
			return
		}
	}

	if n.flags.has(FlagRetains) {
		n.latest = slices.Clone(values)
		n.flags.set(FlagHasLatest)
	}

	for _, h := range slices.Clone(n.values) {
		if n.flags.terminal() {
			return
		}

		n.deliverValue(h, values)
	}
}

// Complete moves an active node to completed, runs the completion handlers then tears down.
func (n *Node) Complete() {
	if n.flags.terminal() {
		return
	}
	n.flags.set(FlagCompleted)

	for _, h := range slices.Clone(n.completes) {
		n.deliverComplete(h)
	}

	n.teardown("completed")
}

// Fail moves an active node to errored, runs the error handlers then tears down.
// A nil err is replaced by ErrFailed.
func (n *Node) Fail(err error) {
	if n.flags.terminal() {
		return
	}
	if err == nil {
		err = ErrFailed
	}

	n.flags.set(FlagErrored)
	n.err = err

	for _, h := range slices.Clone(n.errs) {
		n.deliverError(h, err)
	}

	n.teardown("errored")
}

// Cancel tears the node down without running completion or error handlers.
// A node that is completing or failing is torn down once its handlers ran.
func (n *Node) Cancel() {
	if n.flags.terminal() {
		return
	}
	n.flags.set(FlagCancelled)
	n.cancelled.Store(true)

	n.teardown("cancelled")
}

func (n *Node) teardown(reason string) {
	if n.flags.has(FlagTornDown) {
		return
	}
	n.flags.set(FlagTornDown)

	logger().Debug("wiretap torn down", "id", n.id, "reason", reason)

	cleanups := n.cleanups
	n.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}

	dependents := n.dependents
	n.dependents = nil
	for _, d := range dependents {
		d.node.Cancel()
	}

	n.values = nil
	n.completes = nil
	n.errs = nil
}

func (n *Node) deliverValue(h handler[ValueFunc], values []any) {
	if h.kind == kindNode {
		h.node.Emit(values...)
		return
	}

	n.dispatch(func() {
		// queued before an explicit cancel, dropped after it
		if n.cancelled.Load() {
			return
		}

		h.fn(values...)
	})
}

func (n *Node) deliverComplete(h handler[DoneFunc]) {
	if h.kind == kindNode {
		h.node.Complete()
		return
	}

	n.dispatch(func() { h.fn() })
}

func (n *Node) deliverError(h handler[ErrorFunc], err error) {
	if h.kind == kindNode {
		h.node.Fail(err)
		return
	}

	n.dispatch(func() { h.fn(err) })
}
