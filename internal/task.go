package internal

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Work is a unit of deferred work. Each call to progress is emitted as a value event.
type Work func(ctx context.Context, progress func(values ...any)) error

// Task is a node wrapping a unit of work. The work runs at most once, on the
// node's executor, and its outcome becomes the node's completion or error.
type Task struct {
	*Node

	work   Work
	tracer trace.Tracer

	// cancelled when the task is torn down
	ctx    context.Context
	cancel context.CancelFunc
}

func NewTask(work Work) *Task {
	ctx, cancel := context.WithCancel(context.Background())

	t := &Task{
		Node:   NewNode(),
		work:   work,
		ctx:    ctx,
		cancel: cancel,
	}
	t.OnTeardown(cancel)

	return t
}

// SetTracer records each run as a span.
func (t *Task) SetTracer(tracer trace.Tracer) {
	t.tracer = tracer
}

// Started reports whether Start dispatched the work.
func (t *Task) Started() bool {
	return t.flags.has(FlagStarted)
}

// Start dispatches the work. Only the first call has an effect.
func (t *Task) Start() {
	if t.flags.has(FlagStarted) || t.flags.terminal() {
		return
	}
	t.flags.set(FlagStarted)

	logger().Debug("wiretap task started", "id", t.id)

	t.dispatch(t.run)
}

func (t *Task) run() {
	// cancelled before the executor got to it
	if t.flags.terminal() {
		return
	}

	ctx := t.ctx

	var span trace.Span
	if t.tracer != nil {
		ctx, span = t.tracer.Start(ctx, "wiretap.task",
			trace.WithAttributes(attribute.String("wiretap.id", t.id.String())),
		)
		defer span.End()
	}

	err := t.execute(ctx, span)

	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if err != nil {
		t.Fail(err)
		return
	}

	t.Complete()
}

func (t *Task) execute(ctx context.Context, span trace.Span) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger().Warn("wiretap task panicked", "id", t.id, "panic", r)
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()

	return t.work(ctx, func(values ...any) {
		if span != nil {
			span.AddEvent("progress", trace.WithAttributes(attribute.Int("values", len(values))))
		}

		t.Emit(values...)
	})
}
