package internal

// JobQueue is a FIFO of dispatched callbacks.
type JobQueue struct {
	jobs []func()
}

func NewJobQueue() *JobQueue {
	return &JobQueue{
		jobs: make([]func(), 0),
	}
}

func (q *JobQueue) Enqueue(fn func()) {
	q.jobs = append(q.jobs, fn)
}

func (q *JobQueue) Len() int {
	return len(q.jobs)
}

// Drain empties the queue and returns its jobs in submission order.
func (q *JobQueue) Drain() []func() {
	jobs := q.jobs
	q.jobs = make([]func(), 0, len(jobs))

	return jobs
}

// Run drains the queue and runs every job, including jobs enqueued while running.
func (q *JobQueue) Run() {
	for q.Len() > 0 {
		for _, job := range q.Drain() {
			job()
		}
	}
}
