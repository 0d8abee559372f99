package wiretap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	t.Run("emits the full tuple whenever a member emits", func(t *testing.T) {
		log := []string{}

		a, b := New(), New()
		j, err := Join(a, b)
		require.NoError(t, err)

		j.Listen(func(values ...any) { log = append(log, fmt.Sprint(values)) })

		a.Emit("x")
		b.Emit("y")
		a.Emit("z")

		assert.Equal(t, []string{"[x <nil>]", "[x y]", "[z y]"}, log)
	})

	t.Run("keeps constants in their slot", func(t *testing.T) {
		var got []any

		a := New()
		MustJoin(1, a, "c").Listen(func(values ...any) { got = values })
		a.Emit(true)

		assert.Equal(t, []any{1, true, "c"}, got)
	})

	t.Run("a member emitting several values fills its slot with all of them", func(t *testing.T) {
		var got []any

		a := New()
		MustJoin(a, 0).Listen(func(values ...any) { got = values })
		a.Emit(1, 2)

		assert.Equal(t, []any{[]any{1, 2}, 0}, got)
	})

	t.Run("replays when every member has a current value", func(t *testing.T) {
		var got []any

		MustJoin(NewSignal(1), NewSignal(2), "c").Listen(func(values ...any) { got = values })

		assert.Equal(t, []any{1, 2, "c"}, got)
	})

	t.Run("does not replay while a member has no value yet", func(t *testing.T) {
		called := false

		MustJoin(NewSignal(1), NewEmptySignal[int]()).Listen(func(values ...any) { called = true })

		assert.False(t, called)
	})

	t.Run("constant members only", func(t *testing.T) {
		var got []any

		j := MustJoin(1, 2)
		j.Reduce(0, func(acc, v any) any { return acc.(int) + v.(int) }).
			Listen(func(values ...any) { got = values })

		assert.Equal(t, []any{3}, got)
		assert.Equal(t, StateActive, j.State())
	})

	t.Run("completes once every member completed", func(t *testing.T) {
		completions := 0

		a, b := New(), New()
		j := MustJoin(a, b).OnComplete(func() { completions++ })

		a.Complete()
		assert.Equal(t, 0, completions)
		assert.Equal(t, StateActive, j.State())

		b.Complete()
		assert.Equal(t, 1, completions)
		assert.Equal(t, StateCompleted, j.State())
	})

	t.Run("fails with the first member error and cancels the others", func(t *testing.T) {
		oops := errors.New("oops")
		var errs []error

		a, b := New(), New()
		j := MustJoin(a, b).OnError(func(err error) { errs = append(errs, err) })

		a.Fail(oops)

		assert.Equal(t, []error{oops}, errs)
		assert.Equal(t, StateErrored, j.State())
		assert.Equal(t, StateTornDown, b.State())
	})

	t.Run("fails at once when a member already failed", func(t *testing.T) {
		oops := errors.New("oops")

		a := New().Fail(oops)
		b := New()

		j, err := Join(a, b)
		require.NoError(t, err)

		assert.Equal(t, StateErrored, j.State())
		assert.ErrorIs(t, j.Err(), oops)
		assert.Equal(t, StateTornDown, b.State())
	})

	t.Run("cancels its members when torn down", func(t *testing.T) {
		a, b := New(), NewSignal(0)

		j := MustJoin(a, b, "c")
		j.Cancel()

		assert.Equal(t, StateTornDown, a.State())
		assert.Equal(t, StateTornDown, b.State())
	})

	t.Run("emit without values re-emits the current tuple", func(t *testing.T) {
		log := []string{}

		a := New()
		j := MustJoin(a, "c")
		j.Listen(func(values ...any) { log = append(log, fmt.Sprint(values)) })

		a.Emit(1)
		j.Emit()

		assert.Equal(t, []string{"[1 c]", "[1 c]"}, log)
	})

	t.Run("emit with values still emits the tuple", func(t *testing.T) {
		log := []string{}

		a := New()
		j := MustJoin(a, "c")
		j.Listen(func(values ...any) { log = append(log, fmt.Sprint(values)) })

		a.Emit(1)
		j.Emit("foo")

		assert.Equal(t, []string{"[1 c]", "[1 c]"}, log)
	})

	t.Run("rejects an empty member list", func(t *testing.T) {
		j, err := Join()

		assert.ErrorIs(t, err, ErrEmptyJoin)
		assert.Nil(t, j)
	})

	t.Run("rejects a node in two slots", func(t *testing.T) {
		a := New()

		_, err := Join(a, 1, a)

		assert.ErrorIs(t, err, ErrDuplicateMember)
		assert.ErrorContains(t, err, "slots 0 and 2")
		// nothing was subscribed
		assert.Equal(t, StateActive, a.State())
	})

	t.Run("rejects a nil node", func(t *testing.T) {
		a := New()
		var s *Signal[int]
		var task *Task
		var w *Wiretap

		for _, member := range []Node{s, task, w} {
			_, err := Join(a, member)

			assert.ErrorIs(t, err, ErrNilMember)
			assert.ErrorContains(t, err, "slot 1")
		}
		assert.Equal(t, StateActive, a.State())
	})

	t.Run("a nil value is a constant", func(t *testing.T) {
		var got []any

		a := New()
		j := MustJoin(a, nil)
		j.Listen(func(values ...any) { got = values })
		a.Emit(1)

		assert.Equal(t, []any{1, nil}, got)
	})

	t.Run("must join panics on error", func(t *testing.T) {
		assert.PanicsWithValue(t, ErrEmptyJoin, func() { MustJoin() })
	})

	t.Run("enables a login button", func(t *testing.T) {
		log := []string{}

		username := NewSignal("")
		password := NewSignal("")

		MustJoin(username, password).
			Combine(func(values ...any) any {
				return values[0].(string) != "" && values[1].(string) != ""
			}).
			Listen(func(values ...any) { log = append(log, fmt.Sprint(values...)) })

		username.Next("a")
		password.Next("b")
		username.Next("")

		assert.Equal(t, []string{"false", "false", "true", "false"}, log)
	})
}
