package internal

// flags represents the lifecycle state of a node
type flags uint8

const (
	FlagNone      flags = 0
	FlagCompleted flags = 1 << iota // complete() ran
	FlagErrored                     // fail() ran
	FlagTornDown                    // teardown hooks ran (implied by completed/errored)
	FlagCancelled                   // teardown was requested directly, bypassing handlers
	FlagRetains                     // node keeps its latest event and replays it to late listeners
	FlagHasLatest                   // latest holds a valid event
	FlagStarted                     // task work has been dispatched
)

func (f flags) has(flag flags) bool {
	return f&flag != 0
}

func (f *flags) set(flag flags) {
	*f |= flag
}

func (f *flags) clear(flag flags) {
	*f &^= flag
}

// terminal reports whether no further event can be delivered
func (f flags) terminal() bool {
	return f.has(FlagCompleted | FlagErrored | FlagTornDown)
}
