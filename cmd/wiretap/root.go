package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AnatoleLucet/wiretap"
	"github.com/AnatoleLucet/wiretap/internal/config"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "wiretap",
		Short:        "Reactive event pipelines",
		Long:         `Run small reactive pipelines: a login form, a file system watcher and a traced background task.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: defaults and WIRETAP_* environment variables)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().String("log-format", "", "log format: text or json")

	_ = a.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		newLoginCmd(a),
		newWatchCmd(a),
		newTaskCmd(a),
		newConfigCmd(a),
	)

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	wiretap.SetLogger(logger)

	return nil
}

// executor builds the configured executor and the func releasing it once
// every dispatched callback ran.
func (a *app) executor() (wiretap.Executor, func()) {
	switch a.cfg.Executor.Kind {
	case config.ExecutorLoop:
		loop := wiretap.NewLoop()
		return loop, loop.Close
	case config.ExecutorPool:
		pool := wiretap.NewPool(a.cfg.Executor.PoolSize)
		return pool, pool.Wait
	default:
		return nil, func() {}
	}
}
