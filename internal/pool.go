package internal

import "sync"

// Pool is a concurrent executor running at most size callbacks at once.
// Callbacks dispatched directly to the pool run in no particular order; a
// node on a pool dispatches through its own Lane, so its deliveries keep
// their order while separate nodes run in parallel.
type Pool struct {
	wg  sync.WaitGroup
	sem chan struct{}
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{sem: make(chan struct{}, size)}
}

func (p *Pool) Dispatch(fn func()) {
	p.wg.Go(func() {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		fn()
	})
}

// Lane returns an executor running its callbacks one at a time, in dispatch
// order, on the pool.
func (p *Pool) Lane() Executor {
	return &lane{pool: p, jobs: NewJobQueue()}
}

// Wait blocks until every dispatched callback returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Laner is implemented by executors without an ordering guarantee. A node
// dispatches through the lane instead of the executor itself.
type Laner interface {
	Lane() Executor
}

type lane struct {
	pool *Pool

	mu      sync.Mutex
	jobs    *JobQueue
	running bool
}

func (l *lane) Dispatch(fn func()) {
	l.mu.Lock()
	l.jobs.Enqueue(fn)
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	l.pool.Dispatch(l.drain)
}

func (l *lane) drain() {
	for {
		l.mu.Lock()
		jobs := l.jobs.Drain()
		if len(jobs) == 0 {
			l.running = false
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()

		for _, job := range jobs {
			job()
		}
	}
}
