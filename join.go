package wiretap

import (
	"fmt"

	"github.com/AnatoleLucet/wiretap/internal"
)

// Join aggregates members into one wiretap. Every member implementing Node is
// live: when it emits, the join emits the full tuple of current slot values.
// Any other member, nil included, is a constant slot. Emitting on the join
// itself re-emits the tuple and ignores the values passed.
//
// The join completes once all its live members completed, fails as soon as
// one of them fails, and cancels all of them when torn down. It returns
// ErrEmptyJoin without members, ErrDuplicateMember when a node occupies two
// slots and ErrNilMember for a nil node such as a nil *Signal.
func Join(members ...any) (*Wiretap, error) {
	slots := make([]any, len(members))
	for i, m := range members {
		n, ok := m.(Node)
		if !ok {
			slots[i] = m
			continue
		}

		inner := nodeOf(n)
		if inner == nil {
			return nil, fmt.Errorf("%w: slot %d", ErrNilMember, i)
		}
		slots[i] = inner
	}

	n, err := internal.NewJoin(slots)
	if err != nil {
		return nil, err
	}

	return wrap(n), nil
}

// MustJoin is like Join but panics on error.
func MustJoin(members ...any) *Wiretap {
	w, err := Join(members...)
	if err != nil {
		panic(err)
	}

	return w
}
