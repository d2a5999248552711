// Command fireworks runs the particle fireworks animation in a terminal or a window
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/fireworks/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fireworks:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree; the root runs the terminal host
func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "fireworks",
		Short:         "Particle fireworks in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return withSignals(cmd.Context(), cfg, runTerminal)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file, default searches ./fireworks.yaml and the user config dir")
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(newWindowCmd(&configFile), newPresetsCmd())
	return root
}

func newWindowCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Run in a desktop window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), *configFile)
			if err != nil {
				return err
			}
			return withSignals(cmd.Context(), cfg, runWindow)
		},
	}
}

// withSignals sets up logging, interrupt handling and the optional run duration
func withSignals(parent context.Context, cfg config.Config, run func(context.Context, config.Config) error) error {
	logFile, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	return run(ctx, cfg)
}
