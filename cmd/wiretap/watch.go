package main

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/wiretap/adapters/fswatch"
)

func newWatchCmd(_ *app) *cobra.Command {
	var chmod bool

	cmd := &cobra.Command{
		Use:   "watch PATH",
		Short: "Print file system events until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], chmod)
		},
	}

	cmd.Flags().BoolVar(&chmod, "chmod", false, "also print permission changes")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, chmod bool) error {
	out := cmd.OutOrStdout()

	ops := fswatch.AllOps
	if !chmod {
		ops &^= fsnotify.Chmod
	}

	w, err := fswatch.Watch(path, fswatch.WithOps(ops))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	failed := make(chan error, 1)
	w.Do(func() {
		w.
			Combine(func(values ...any) any {
				return fmt.Sprintf("%-7s %s", values[1].(fsnotify.Op), filepath.Base(values[0].(string)))
			}).
			Listen(func(values ...any) { fmt.Fprintln(out, values...) })

		w.OnError(func(err error) { failed <- err })
	})

	fmt.Fprintf(out, "watching %s\n", path)

	select {
	case <-cmd.Context().Done():
		return nil
	case err := <-failed:
		return err
	}
}
