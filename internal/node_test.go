package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	t.Run("rejects both a callback and a node", func(t *testing.T) {
		n := NewNode()

		assert.PanicsWithValue(t, ErrConflictingHandler, func() {
			n.Listen(func(values ...any) {}, NewNode())
		})
		assert.PanicsWithValue(t, ErrConflictingHandler, func() {
			n.OnComplete(func() {}, NewNode())
		})
		assert.PanicsWithValue(t, ErrConflictingHandler, func() {
			n.OnError(func(err error) {}, NewNode())
		})
	})

	t.Run("rejects neither", func(t *testing.T) {
		n := NewNode()

		assert.PanicsWithValue(t, ErrNoHandler, func() { n.Listen(nil, nil) })
		assert.PanicsWithValue(t, ErrNoHandler, func() { n.OnComplete(nil, nil) })
		assert.PanicsWithValue(t, ErrNoHandler, func() { n.OnError(nil, nil) })
	})

	t.Run("withoutID keeps the order of the others", func(t *testing.T) {
		handlers := []handler[DoneFunc]{
			{id: 1, kind: kindFunc},
			{id: 2, kind: kindFunc},
			{id: 1, kind: kindNode},
			{id: 3, kind: kindFunc},
		}

		kept := withoutID(handlers, 1)

		ids := []uint64{}
		for _, h := range kept {
			ids = append(ids, h.id)
		}
		assert.Equal(t, []uint64{2, 3}, ids)
	})
}

func TestNode(t *testing.T) {
	t.Run("unlisten removes the handler", func(t *testing.T) {
		calls := 0

		n := NewNode()
		id := n.Listen(func(values ...any) { calls++ }, nil)
		n.Emit()
		n.Unlisten(id)
		n.Emit()

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, n.Listeners())
	})

	t.Run("chain shares one id for every handler", func(t *testing.T) {
		parent, child := NewNode(), NewNode()

		id := parent.Chain(child)
		parent.Unlisten(id)
		parent.Complete()

		assert.Equal(t, StateActive, child.State())
	})

	t.Run("chained nodes are cancelled with their parent", func(t *testing.T) {
		parent, child := NewNode(), NewNode()

		parent.Chain(child)
		parent.Cancel()

		assert.Equal(t, StateTornDown, child.State())
		assert.True(t, child.flags.has(FlagCancelled))
	})

	t.Run("chaining into a torn down parent cancels the target", func(t *testing.T) {
		parent, child := NewNode(), NewNode()

		parent.Cancel()
		parent.Chain(child)

		assert.Equal(t, StateTornDown, child.State())
	})

	t.Run("latest is a copy", func(t *testing.T) {
		n := newRetainingNode()

		event := []any{1, 2}
		n.Emit(event...)
		event[0] = 100

		latest, ok := n.Latest()
		assert.True(t, ok)
		assert.Equal(t, []any{1, 2}, latest)

		latest[1] = 200
		again, _ := n.Latest()
		assert.Equal(t, []any{1, 2}, again)
	})

	t.Run("a non retaining node has no latest", func(t *testing.T) {
		n := NewNode()
		n.Emit(1)

		_, ok := n.Latest()
		assert.False(t, ok)
		assert.False(t, n.Retains())
	})

	t.Run("completion is terminal but not cancelled", func(t *testing.T) {
		n := NewNode()
		n.Complete()

		assert.True(t, n.flags.has(FlagCompleted))
		assert.True(t, n.flags.has(FlagTornDown))
		assert.False(t, n.flags.has(FlagCancelled))
		assert.Equal(t, "completed", n.State().String())
	})
}

func TestFlags(t *testing.T) {
	var f flags

	assert.False(t, f.terminal())

	f.set(FlagRetains | FlagHasLatest)
	assert.True(t, f.has(FlagRetains))
	assert.False(t, f.terminal())

	f.clear(FlagHasLatest)
	assert.False(t, f.has(FlagHasLatest))
	assert.True(t, f.has(FlagRetains))

	f.set(FlagTornDown)
	assert.True(t, f.terminal())
}

func TestSlotValue(t *testing.T) {
	assert.Nil(t, slotValue(nil))
	assert.Equal(t, "a", slotValue([]any{"a"}))

	values := []any{1, 2}
	slot := slotValue(values)
	values[0] = 100
	assert.Equal(t, []any{1, 2}, slot)
}

func TestJobQueue(t *testing.T) {
	q := NewJobQueue()

	log := []int{}
	q.Enqueue(func() { log = append(log, 1) })
	q.Enqueue(func() {
		log = append(log, 2)
		q.Enqueue(func() { log = append(log, 3) })
	})

	jobs := q.Drain()
	assert.Len(t, jobs, 2)
	assert.Equal(t, 0, q.Len())

	for _, job := range jobs {
		job()
	}
	q.Run()

	assert.Equal(t, []int{1, 2, 3}, log)
}
