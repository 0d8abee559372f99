package internal

import (
	"fmt"
	"slices"
)

type join struct {
	node *Node

	// one entry per member: the constant, or the latest value of the member node
	slots []any

	// node members still expected to complete
	outstanding int

	// set while members replay their latest values during construction
	priming bool
}

// NewJoin aggregates members into one node emitting the full tuple of slot
// values whenever a member node emits. Members that are *Node are live; any
// other value is a constant slot.
//
// The join completes once every member node completed, fails as soon as any
// member fails, and cancels every member node when torn down.
func NewJoin(members []any) (*Node, error) {
	if len(members) == 0 {
		return nil, ErrEmptyJoin
	}

	j := &join{
		node:  newRetainingNode(),
		slots: make([]any, len(members)),
	}
	j.node.transform = j.tuple

	var nodes []*Node
	slotOf := make(map[*Node]int)
	for i, m := range members {
		member, ok := m.(*Node)
		if !ok || member == nil {
			j.slots[i] = m
			continue
		}

		if prev, dup := slotOf[member]; dup {
			return nil, fmt.Errorf("%w: slots %d and %d", ErrDuplicateMember, prev, i)
		}
		slotOf[member] = i
		nodes = append(nodes, member)
	}

	j.outstanding = len(nodes)
	primed := make(map[int]bool, len(nodes))

	j.priming = true
	for _, member := range nodes {
		slot := slotOf[member]

		member.Listen(func(values ...any) {
			j.slots[slot] = slotValue(values)

			if j.priming {
				primed[slot] = true
				return
			}

			j.node.Emit()
		}, nil)
		member.OnError(j.node.Fail, nil)
		member.OnComplete(j.memberCompleted, nil)
	}
	j.priming = false

	if len(primed) == len(nodes) && !j.node.flags.terminal() {
		j.node.latest = slices.Clone(j.slots)
		j.node.flags.set(FlagHasLatest)
	}

	j.node.OnTeardown(func() {
		for _, member := range nodes {
			member.Cancel()
		}
	})

	return j.node, nil
}

// tuple replaces every event with the current slot values. Values passed to
// Emit on the join itself are ignored.
func (j *join) tuple([]any) ([]any, bool) {
	return slices.Clone(j.slots), true
}

func (j *join) memberCompleted() {
	j.outstanding--
	if j.outstanding == 0 {
		j.node.Complete()
	}
}
