// Command wiretap runs small reactive pipelines built with the wiretap package.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
