package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/wiretap"
	"github.com/AnatoleLucet/wiretap/internal/tracing"
)

func newTaskCmd(a *app) *cobra.Command {
	var (
		steps int
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Run a background task reporting its progress",
		Long: `Run a task of --steps steps on the configured executor, printing each
progress report. The run is traced when tracing is enabled in the config.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTask(cmd, steps, delay)
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 5, "number of progress reports")
	cmd.Flags().DurationVar(&delay, "delay", 100*time.Millisecond, "time spent on each step")

	return cmd
}

func (a *app) runTask(cmd *cobra.Command, steps int, delay time.Duration) error {
	out := cmd.OutOrStdout()
	interrupted := cmd.Context()

	provider, err := tracing.NewProvider(a.cfg.Tracing)
	if err != nil {
		return fmt.Errorf("creating tracing provider: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	executor, release := a.executor()

	done := make(chan error, 1)

	opts := []wiretap.TaskOption{wiretap.WithTracer(provider.Tracer())}
	if executor != nil {
		opts = append(opts, wiretap.WithExecutor(executor))
	}

	task := wiretap.NewProgressTask(func(ctx context.Context, progress func(values ...any)) error {
		for i := 1; i <= steps; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-interrupted.Done():
				return interrupted.Err()
			case <-time.After(delay):
			}

			progress(i, steps)
		}
		return nil
	}, opts...)

	task.
		Listen(func(values ...any) { fmt.Fprintf(out, "progress %d/%d\n", values...) }).
		OnComplete(func() {
			fmt.Fprintln(out, "done")
			done <- nil
		}).
		OnError(func(err error) { done <- err })

	task.Start()

	err = <-done
	release()

	return err
}
