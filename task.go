package wiretap

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/wiretap/internal"
)

// Task is a wiretap wrapping a unit of work. The work runs once, when the task
// is started, on the task's executor. Returning nil completes the task, an
// error (or a panic) fails it.
type Task struct {
	*Wiretap

	task *internal.Task
}

func (t *Task) wiretap() *internal.Node {
	if t == nil {
		return nil
	}

	return t.Wiretap.wiretap()
}

type taskConfig struct {
	executor   Executor
	tracer     trace.Tracer
	onComplete func()
}

// TaskOption configures a task at construction.
type TaskOption func(*taskConfig)

// WithExecutor runs the work and the listeners on e.
func WithExecutor(e Executor) TaskOption {
	return func(c *taskConfig) { c.executor = e }
}

// WithTracer records each run of the work as a span.
func WithTracer(t trace.Tracer) TaskOption {
	return func(c *taskConfig) { c.tracer = t }
}

// WithCompletion registers fn as a completion listener and starts the task
// as soon as it is built.
func WithCompletion(fn func()) TaskOption {
	return func(c *taskConfig) { c.onComplete = fn }
}

// NewTask wraps work taking no progress callback.
func NewTask(work func(ctx context.Context) error, opts ...TaskOption) *Task {
	return newTask(func(ctx context.Context, _ func(values ...any)) error {
		return work(ctx)
	}, opts)
}

// NewProgressTask wraps work reporting progress. Each progress call is
// emitted as a value event.
func NewProgressTask(work func(ctx context.Context, progress func(values ...any)) error, opts ...TaskOption) *Task {
	return newTask(work, opts)
}

func newTask(work internal.Work, opts []TaskOption) *Task {
	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	t := &Task{task: internal.NewTask(work)}
	t.Wiretap = wrap(t.task.Node)

	if cfg.executor != nil {
		t.task.SetExecutor(cfg.executor)
	}
	if cfg.tracer != nil {
		t.task.SetTracer(cfg.tracer)
	}
	if cfg.onComplete != nil {
		t.OnComplete(cfg.onComplete)
		t.Start()
	}

	return t
}

// Start dispatches the work. Calls after the first have no effect.
func (t *Task) Start() *Task {
	t.task.Start()
	return t
}

// Started reports whether the work was dispatched.
func (t *Task) Started() bool {
	return t.task.Started()
}
