package wiretap

import (
	"log/slog"

	"github.com/AnatoleLucet/wiretap/internal"
)

// SetLogger sets the logger receiving lifecycle events: teardowns and task
// runs at Debug, recovered task panics at Warn. nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	internal.SetLogger(l)
}
