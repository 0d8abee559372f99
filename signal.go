package wiretap

import "github.com/AnatoleLucet/wiretap/internal"

// Signal is a wiretap holding a current value. Every new listener
// immediately receives the current value, then all later ones.
type Signal[T any] struct {
	*Wiretap

	signal *internal.Signal
}

func newSignal[T any](s *internal.Signal) *Signal[T] {
	return &Signal[T]{
		Wiretap: wrap(s.Node),
		signal:  s,
	}
}

func (s *Signal[T]) wiretap() *internal.Node {
	if s == nil {
		return nil
	}

	return s.Wiretap.wiretap()
}

// NewSignal creates a signal with a current value.
func NewSignal[T any](initial T) *Signal[T] {
	return newSignal[T](internal.NewSignal(initial, true))
}

// NewEmptySignal creates a signal without a current value. Listeners receive
// nothing until the first call to Next.
func NewEmptySignal[T any]() *Signal[T] {
	return newSignal[T](internal.NewSignal(nil, false))
}

// NewPropertySignal creates a signal mirroring an external property. set is
// the reverse setter BindTo applies bound values with; it is expected to
// report the change back through Next.
func NewPropertySignal[T any](initial T, set func(T)) *Signal[T] {
	return NewSignal(initial).WithSetter(set)
}

// WithSetter replaces the setter BindTo applies bound values with. By default
// a signal binds to itself through Next. Bound values that are not a T are
// skipped.
func (s *Signal[T]) WithSetter(set func(T)) *Signal[T] {
	s.signal.SetSetter(func(v any) {
		if t, ok := as[T](v); ok {
			set(t)
		}
	})
	return s
}

// Value returns the current value. It returns the zero value when the signal
// is unset or when its current event, set through the untyped Emit, does not
// hold a T.
func (s *Signal[T]) Value() T {
	v, _ := s.signal.Value()
	t, _ := as[T](v)
	return t
}

// IsSet reports whether the signal holds a value.
func (s *Signal[T]) IsSet() bool {
	_, ok := s.signal.Value()
	return ok
}

// Next sets the current value and notifies the listeners.
func (s *Signal[T]) Next(v T) *Signal[T] {
	s.signal.Next(v)
	return s
}

// BindTo applies every value of source to the signal's setter, starting with
// the source's current value when it has one. Cancelling the returned
// wiretap removes the binding.
func (s *Signal[T]) BindTo(source Node) *Wiretap {
	return wrap(s.signal.BindTo(nodeOf(source)))
}
