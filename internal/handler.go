package internal

// ValueFunc receives the values of a single event.
type ValueFunc func(values ...any)

// DoneFunc is called once when a node completes.
type DoneFunc func()

// ErrorFunc is called once when a node fails.
type ErrorFunc func(err error)

type handlerKind uint8

const (
	kindFunc handlerKind = iota + 1
	kindNode
)

// handler is either a plain callback or a chained node.
// The variant is resolved once, at registration.
type handler[F any] struct {
	id   uint64
	kind handlerKind

	fn   F
	node *Node
}

func newHandler[F any](id uint64, fn F, hasFn bool, node *Node) handler[F] {
	switch {
	case hasFn && node != nil:
		panic(ErrConflictingHandler)
	case !hasFn && node == nil:
		panic(ErrNoHandler)
	case node != nil:
		return handler[F]{id: id, kind: kindNode, node: node}
	}

	return handler[F]{id: id, kind: kindFunc, fn: fn}
}

func withoutID[F any](handlers []handler[F], id uint64) []handler[F] {
	kept := handlers[:0]
	for _, h := range handlers {
		if h.id != id {
			kept = append(kept, h)
		}
	}

	// clear the tail so removed handlers can be collected
	for i := len(kept); i < len(handlers); i++ {
		handlers[i] = handler[F]{}
	}

	return kept
}
