package internal

import (
	"sync"
	"sync/atomic"
)

// Loop is a serial executor: dispatched callbacks run one at a time, in
// submission order, on a single dedicated goroutine.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  *JobQueue
	closed bool

	gid  atomic.Int64
	done chan struct{}
}

func NewLoop() *Loop {
	l := &Loop{
		queue: NewJobQueue(),
		done:  make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	l.gid.Store(-1)

	started := make(chan struct{})
	go l.run(started)
	<-started

	return l
}

// Dispatch queues fn. Callbacks dispatched after Close are dropped.
func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.queue.Enqueue(fn)
	l.cond.Signal()
}

// Running reports whether the caller is on the loop goroutine.
func (l *Loop) Running() bool {
	gid := goroutineID()
	return gid >= 0 && gid == l.gid.Load()
}

// Sync runs fn on the loop and waits for it. Called from the loop itself, fn
// runs inline. It returns false when the loop is closed and fn did not run.
func (l *Loop) Sync(fn func()) bool {
	if l.Running() {
		fn()
		return true
	}

	done := make(chan struct{})

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue.Enqueue(func() {
		defer close(done)
		fn()
	})
	l.cond.Signal()
	l.mu.Unlock()

	<-done
	return true
}

// Close stops accepting callbacks, runs the ones already queued, and waits for
// the loop goroutine to exit unless called from it.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		l.cond.Broadcast()
	}
	l.mu.Unlock()

	if !l.Running() {
		<-l.done
	}
}

func (l *Loop) run(started chan<- struct{}) {
	defer close(l.done)

	l.gid.Store(goroutineID())
	close(started)

	for {
		l.mu.Lock()
		for l.queue.Len() == 0 && !l.closed {
			l.cond.Wait()
		}
		if l.queue.Len() == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		jobs := l.queue.Drain()
		l.mu.Unlock()

		for _, job := range jobs {
			job()
		}
	}
}
