// Package property exposes observable values as wiretap signals.
package property

import (
	"slices"
	"sync"

	"github.com/AnatoleLucet/wiretap"
)

// Property is an observable value held outside a wiretap graph.
type Property[T any] interface {
	Get() T
	Set(v T)

	// Observe calls fn with every new value until the returned func is called.
	Observe(fn func(v T)) (stop func())
}

type observer[T any] struct {
	id uint64
	fn func(T)
}

// Value is an in-memory Property, safe for concurrent use. Observers are
// called on the goroutine calling Set, in registration order.
type Value[T any] struct {
	mu        sync.Mutex
	value     T
	seq       uint64
	observers []observer[T]
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

func (p *Value[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

func (p *Value[T]) Set(v T) {
	p.mu.Lock()
	p.value = v
	observers := slices.Clone(p.observers)
	p.mu.Unlock()

	for _, o := range observers {
		o.fn(v)
	}
}

func (p *Value[T]) Observe(fn func(v T)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	id := p.seq
	p.observers = append(p.observers, observer[T]{id, fn})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		p.observers = slices.DeleteFunc(p.observers, func(o observer[T]) bool { return o.id == id })
	}
}

// Observers returns the number of registered observers.
func (p *Value[T]) Observers() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.observers)
}

// Observe returns a signal mirroring p. The signal starts with p's current
// value and follows every change; binding it writes back through p.Set.
// Tearing the signal down stops observing p.
func Observe[T any](p Property[T]) *wiretap.Signal[T] {
	s := wiretap.NewPropertySignal(p.Get(), p.Set)

	stop := p.Observe(func(v T) { s.Next(v) })
	s.OnTeardown(stop)

	return s
}

// Bind writes every value of source into p, starting with source's current
// value when it has one. Cancelling the returned wiretap stops the updates.
func Bind[T any](p Property[T], source wiretap.Node) *wiretap.Wiretap {
	s := Observe(p)

	binding := s.BindTo(source)
	binding.OnTeardown(s.Cancel)

	return binding
}
