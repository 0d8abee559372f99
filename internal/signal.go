package internal

// Signal is a node holding a current value, replayed to every new listener.
type Signal struct {
	*Node

	// applies a bound value to whatever the signal mirrors
	setter func(value any)
}

// NewSignal creates a signal. When set is false the current value starts
// unset and nothing is replayed until the first emission.
func NewSignal(initial any, set bool) *Signal {
	s := &Signal{Node: newRetainingNode()}
	s.setter = s.Next

	if set {
		s.latest = []any{initial}
		s.flags.set(FlagHasLatest)
	}

	return s
}

// SetSetter replaces the reverse setter used by BindTo.
func (s *Signal) SetSetter(fn func(value any)) {
	s.setter = fn
}

// Value returns the current value, or nil when unset.
func (s *Signal) Value() (any, bool) {
	if !s.flags.has(FlagHasLatest) {
		return nil, false
	}

	return slotValue(s.latest), true
}

// Next sets the current value and notifies the listeners.
func (s *Signal) Next(value any) {
	s.Emit(value)
}

// BindTo applies every event of source to the signal's setter, starting with
// source's latest event when it has one. The returned node is the binding
// itself; cancelling it stops the updates. The binding ends with the signal.
func (s *Signal) BindTo(source *Node) *Node {
	binding := source.Tap()
	binding.Listen(func(values ...any) {
		s.setter(slotValue(values))
	}, nil)

	s.OnTeardown(binding.Cancel)

	return binding
}

// slotValue reduces an event to a single value: nil, the only value, or the values themselves.
func slotValue(values []any) any {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	default:
		return append([]any(nil), values...)
	}
}
