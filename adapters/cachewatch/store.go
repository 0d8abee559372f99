// Package cachewatch is an expiring key/value store whose keys can be
// observed as wiretap signals.
package cachewatch

import (
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/AnatoleLucet/wiretap"
)

const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Store holds values of type V under string keys. Watchers of a key receive
// every value set for it and complete when the key is deleted or expires.
//
// Signals are not safe for concurrent use. Expired keys are evicted on the
// cache's cleanup goroutine, so stores with a cleanup interval should deliver
// notifications through an Executor (see WithExecutor).
type Store[V any] struct {
	cache    *gocache.Cache
	executor wiretap.Executor

	mu       sync.Mutex
	watchers map[string][]*wiretap.Signal[V]
}

type options struct {
	expiration time.Duration
	cleanup    time.Duration
	executor   wiretap.Executor
}

type Option func(*options)

// WithExpiration sets the default time to live of the keys and the interval
// between cleanups of expired keys. A cleanup interval of zero or less
// disables the cleanup goroutine.
func WithExpiration(expiration, cleanup time.Duration) Option {
	return func(o *options) {
		o.expiration = expiration
		o.cleanup = cleanup
	}
}

// WithExecutor delivers watcher notifications through e.
func WithExecutor(e wiretap.Executor) Option {
	return func(o *options) { o.executor = e }
}

func New[V any](opts ...Option) *Store[V] {
	o := options{
		expiration: DefaultExpiration,
		cleanup:    DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// one lane keeps the notifications of a pool in order
	if l, ok := o.executor.(interface{ Lane() wiretap.Executor }); ok {
		o.executor = l.Lane()
	}

	s := &Store[V]{
		cache:    gocache.New(o.expiration, o.cleanup),
		executor: o.executor,
		watchers: make(map[string][]*wiretap.Signal[V]),
	}
	s.cache.OnEvicted(s.evicted)

	return s
}

// Get returns the value stored under key.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V

	value, found := s.cache.Get(key)
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		return zero, false
	}

	return v, true
}

// Set stores v under key for ttl and notifies the key's watchers.
// gocache.DefaultExpiration and gocache.NoExpiration are accepted as ttl.
func (s *Store[V]) Set(key string, v V, ttl time.Duration) {
	s.cache.Set(key, v, ttl)

	for _, w := range s.watching(key) {
		s.notify(func() { w.Next(v) })
	}
}

// Delete removes key, completing its watchers.
func (s *Store[V]) Delete(key string) {
	s.cache.Delete(key)
}

// DeleteExpired removes every expired key, completing their watchers.
func (s *Store[V]) DeleteExpired() {
	s.cache.DeleteExpired()
}

// Len returns the number of stored keys, expired ones included until they are cleaned up.
func (s *Store[V]) Len() int {
	return s.cache.ItemCount()
}

// Watch returns a signal following the value of key. It holds the current
// value when key is set. Binding the signal writes into the store with the
// default expiration.
func (s *Store[V]) Watch(key string) *wiretap.Signal[V] {
	var sig *wiretap.Signal[V]
	if v, ok := s.Get(key); ok {
		sig = wiretap.NewSignal(v)
	} else {
		sig = wiretap.NewEmptySignal[V]()
	}

	sig.WithSetter(func(v V) { s.Set(key, v, gocache.DefaultExpiration) })

	s.mu.Lock()
	s.watchers[key] = append(s.watchers[key], sig)
	s.mu.Unlock()

	sig.OnTeardown(func() { s.unwatch(key, sig) })

	return sig
}

// Watchers returns the number of live watchers of key.
func (s *Store[V]) Watchers(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.watchers[key])
}

func (s *Store[V]) evicted(key string, _ any) {
	s.mu.Lock()
	watchers := s.watchers[key]
	delete(s.watchers, key)
	s.mu.Unlock()

	for _, w := range watchers {
		s.notify(func() { w.Complete() })
	}
}

func (s *Store[V]) watching(key string) []*wiretap.Signal[V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.watchers[key])
}

func (s *Store[V]) unwatch(key string, sig *wiretap.Signal[V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	watchers := slices.DeleteFunc(s.watchers[key], func(w *wiretap.Signal[V]) bool { return w == sig })
	if len(watchers) == 0 {
		delete(s.watchers, key)
		return
	}

	s.watchers[key] = watchers
}

func (s *Store[V]) notify(fn func()) {
	if s.executor != nil {
		s.executor.Dispatch(fn)
		return
	}

	fn()
}
