package wiretap

import "github.com/AnatoleLucet/wiretap/internal"

// Executor runs the callbacks a wiretap dispatches to its listeners.
// A wiretap without an executor calls its listeners synchronously.
type Executor = internal.Executor

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Dispatch(fn func()) { f(fn) }

// Loop is a serial executor running callbacks in order on one goroutine.
type Loop = internal.Loop

// NewLoop starts a loop. Close it to stop its goroutine.
func NewLoop() *Loop {
	return internal.NewLoop()
}

// Pool is a concurrent executor with bounded parallelism. A wiretap on a pool
// still delivers its own events in order; separate wiretaps run in parallel.
type Pool = internal.Pool

// NewPool creates a pool running at most size callbacks at once.
func NewPool(size int) *Pool {
	return internal.NewPool(size)
}

// Queue is a manual executor: callbacks wait until Run is called.
type Queue struct {
	jobs *internal.JobQueue
}

func NewQueue() *Queue {
	return &Queue{internal.NewJobQueue()}
}

func (q *Queue) Dispatch(fn func()) { q.jobs.Enqueue(fn) }

// Len returns the number of pending callbacks.
func (q *Queue) Len() int { return q.jobs.Len() }

// Run runs pending callbacks, including those queued while running.
func (q *Queue) Run() { q.jobs.Run() }
