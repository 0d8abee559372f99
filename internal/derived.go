package internal

// derive creates a node subscribed to n that rewrites each event with transform.
// A derived node inherits retention from its parent, so a derived node over a
// signal or a join replays its latest result to late listeners.
//
// When the derived node is torn down it unsubscribes, and cancels n if it was
// n's last value listener.
func (n *Node) derive(transform func(values []any) ([]any, bool)) *Node {
	child := NewNode()
	child.transform = transform
	if n.flags.has(FlagRetains) {
		child.flags.set(FlagRetains)
	}

	id := n.Chain(child)

	child.OnTeardown(func() {
		n.Unlisten(id)

		if n.Listeners() == 0 && !n.flags.terminal() {
			n.Cancel()
		}
	})

	return child
}

// Tap forwards every event unchanged.
func (n *Node) Tap() *Node {
	return n.derive(nil)
}

// Filter forwards an event only when pred accepts its values.
func (n *Node) Filter(pred func(values ...any) bool) *Node {
	return n.derive(func(values []any) ([]any, bool) {
		return values, pred(values...)
	})
}

// Map applies fn to each value of an event independently.
func (n *Node) Map(fn func(value any) any) *Node {
	return n.derive(func(values []any) ([]any, bool) {
		mapped := make([]any, len(values))
		for i, v := range values {
			mapped[i] = fn(v)
		}

		return mapped, true
	})
}

// Combine collapses the values of an event into a single value.
func (n *Node) Combine(fn func(values ...any) any) *Node {
	return n.derive(func(values []any) ([]any, bool) {
		return []any{fn(values...)}, true
	})
}

// Reduce folds the values of every event, left to right, into an accumulator
// starting at seed and emits the accumulator after each event.
func (n *Node) Reduce(seed any, fn func(acc, value any) any) *Node {
	acc := seed

	return n.derive(func(values []any) ([]any, bool) {
		for _, v := range values {
			acc = fn(acc, v)
		}

		return []any{acc}, true
	})
}
