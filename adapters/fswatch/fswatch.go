// Package fswatch turns file system events into wiretap events.
package fswatch

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/AnatoleLucet/wiretap"
)

// AllOps matches every file system operation.
const AllOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename | fsnotify.Chmod

// Watcher is a wiretap emitting (name string, op fsnotify.Op) for each file
// system event on the watched path. A watcher error fails it.
//
// Events are emitted on the watcher's loop. Register listeners and cancel the
// watcher from that loop (see Do), or through Close.
type Watcher struct {
	*wiretap.Wiretap

	fsw     *fsnotify.Watcher
	loop    *wiretap.Loop
	ownLoop bool
	stopped chan struct{}
}

type options struct {
	ops  fsnotify.Op
	loop *wiretap.Loop
}

type Option func(*options)

// WithOps only emits the events matching ops.
func WithOps(ops fsnotify.Op) Option {
	return func(o *options) { o.ops = ops }
}

// WithLoop emits on l instead of a loop owned by the watcher. l is not closed
// with the watcher.
func WithLoop(l *wiretap.Loop) Option {
	return func(o *options) { o.loop = l }
}

// Watch starts watching path, a file or a directory.
func Watch(path string, opts ...Option) (*Watcher, error) {
	o := options{ops: AllOps}
	for _, opt := range opts {
		opt(&o)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		Wiretap: wiretap.New(),
		fsw:     fsw,
		loop:    o.loop,
		stopped: make(chan struct{}),
	}
	if w.loop == nil {
		w.loop = wiretap.NewLoop()
		w.ownLoop = true
	}
	w.OnTeardown(w.release)

	go w.forward(o.ops)

	return w, nil
}

// Do runs fn on the watcher's loop and waits for it.
func (w *Watcher) Do(fn func()) {
	w.loop.Sync(fn)
}

// Close cancels the watcher and waits until it stopped reading events.
func (w *Watcher) Close() error {
	w.loop.Sync(w.Cancel)
	<-w.stopped

	return nil
}

func (w *Watcher) forward(ops fsnotify.Op) {
	defer close(w.stopped)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&ops == 0 {
				continue
			}

			w.loop.Dispatch(func() { w.Emit(event.Name, event.Op) })

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

			w.loop.Dispatch(func() { w.Fail(fmt.Errorf("fswatch: %w", err)) })
		}
	}
}

// release runs on the loop when the watcher is torn down.
func (w *Watcher) release() {
	_ = w.fsw.Close()

	if w.ownLoop {
		w.loop.Close()
	}
}
