// Package wiretap is a reactive event-propagation engine.
//
// A Wiretap delivers value events, then at most one completion or error, to
// its listeners. Wiretaps are chained into derived streams with Filter, Map,
// Combine and Reduce, aggregated with Join, and fed by Signals (which remember
// their current value) or Tasks (which run a unit of work on an Executor).
//
// Teardown is explicit: Cancel tears a wiretap down, completion and errors tear
// it down too, and a derived wiretap cancels its parent when it was the parent's
// last listener.
package wiretap

import (
	"github.com/google/uuid"

	"github.com/AnatoleLucet/wiretap/internal"
)

// State is the lifecycle state of a wiretap.
type State = internal.State

const (
	StateActive    = internal.StateActive
	StateCompleted = internal.StateCompleted
	StateErrored   = internal.StateErrored
	StateTornDown  = internal.StateTornDown
)

// Node is implemented by every wiretap kind (*Wiretap, *Signal[T], *Task) and
// can be used as a chained handler or a Join member.
type Node interface {
	ID() uuid.UUID
	Cancel()

	wiretap() *internal.Node
}

// as converts an event value to T. nil converts to the zero value; any other
// value not holding a T, such as a multi-value event, does not convert.
func as[T any](v any) (T, bool) {
	if v == nil {
		var zero T
		return zero, true
	}

	t, ok := v.(T)
	return t, ok
}

func nodeOf(n Node) *internal.Node {
	if n == nil {
		return nil
	}

	return n.wiretap()
}

type Wiretap struct {
	node *internal.Node
}

// New creates a wiretap, registering the optional listeners.
func New(listeners ...func(values ...any)) *Wiretap {
	w := &Wiretap{internal.NewNode()}
	for _, fn := range listeners {
		w.Listen(fn)
	}

	return w
}

func wrap(n *internal.Node) *Wiretap {
	return &Wiretap{n}
}

func (w *Wiretap) wiretap() *internal.Node {
	if w == nil {
		return nil
	}

	return w.node
}

func (w *Wiretap) ID() uuid.UUID { return w.node.ID() }

func (w *Wiretap) State() State { return w.node.State() }

// Err returns the error the wiretap failed with.
func (w *Wiretap) Err() error { return w.node.Err() }

// Latest returns the last event of a wiretap that replays to late listeners
// (signals, joins, and anything derived from them).
func (w *Wiretap) Latest() ([]any, bool) { return w.node.Latest() }

// Listen registers a value listener. It panics with ErrNoHandler if fn is nil.
func (w *Wiretap) Listen(fn func(values ...any)) *Wiretap {
	w.node.Listen(fn, nil)
	return w
}

// ListenNode forwards every value event into target.
func (w *Wiretap) ListenNode(target Node) *Wiretap {
	w.node.Listen(nil, nodeOf(target))
	return w
}

// OnComplete registers a completion listener. If the wiretap already
// completed, fn is called right away.
func (w *Wiretap) OnComplete(fn func()) *Wiretap {
	w.node.OnComplete(fn, nil)
	return w
}

// OnCompleteNode completes target when the wiretap completes.
func (w *Wiretap) OnCompleteNode(target Node) *Wiretap {
	w.node.OnComplete(nil, nodeOf(target))
	return w
}

// OnError registers an error listener. If the wiretap already failed, fn is
// called right away with the stored error.
func (w *Wiretap) OnError(fn func(err error)) *Wiretap {
	w.node.OnError(fn, nil)
	return w
}

// OnErrorNode fails target with the wiretap's error.
func (w *Wiretap) OnErrorNode(target Node) *Wiretap {
	w.node.OnError(nil, nodeOf(target))
	return w
}

// OnTeardown registers a hook run exactly once when the wiretap is torn down,
// whether by Cancel, completion or error.
func (w *Wiretap) OnTeardown(fn func()) *Wiretap {
	w.node.OnTeardown(fn)
	return w
}

// WithExecutor makes listeners run on e instead of the emitting goroutine.
// Chained nodes are not affected.
func (w *Wiretap) WithExecutor(e Executor) *Wiretap {
	w.node.SetExecutor(e)
	return w
}

// Emit sends a value event to the listeners. No-op once terminal.
func (w *Wiretap) Emit(values ...any) *Wiretap {
	w.node.Emit(values...)
	return w
}

// Complete ends the wiretap successfully. No-op once terminal.
func (w *Wiretap) Complete() *Wiretap {
	w.node.Complete()
	return w
}

// Fail ends the wiretap with err, or ErrFailed when err is nil. No-op once terminal.
func (w *Wiretap) Fail(err error) *Wiretap {
	w.node.Fail(err)
	return w
}

// Cancel tears the wiretap down without notifying completion or error listeners.
func (w *Wiretap) Cancel() { w.node.Cancel() }

// Filter returns a wiretap forwarding only the events pred accepts.
func (w *Wiretap) Filter(pred func(values ...any) bool) *Wiretap {
	return wrap(w.node.Filter(pred))
}

// Map returns a wiretap emitting fn applied to each value of every event.
func (w *Wiretap) Map(fn func(value any) any) *Wiretap {
	return wrap(w.node.Map(fn))
}

// Combine returns a wiretap emitting a single value, fn of all the values of every event.
func (w *Wiretap) Combine(fn func(values ...any) any) *Wiretap {
	return wrap(w.node.Combine(fn))
}

// Reduce returns a wiretap folding every value into an accumulator starting
// at seed, and emitting the accumulator after each event.
func (w *Wiretap) Reduce(seed any, fn func(acc, value any) any) *Wiretap {
	return wrap(w.node.Reduce(seed, fn))
}
