package internal

import (
	"log/slog"
	"sync/atomic"
)

var activeLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used for lifecycle events. nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	activeLogger.Store(l)
}

func logger() *slog.Logger {
	if l := activeLogger.Load(); l != nil {
		return l
	}

	return slog.Default()
}
