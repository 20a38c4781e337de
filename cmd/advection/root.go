package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/fsutil"
	"github.com/banshee-data/advection/internal/monitoring"
)

// rootOptions carries the persistent flags to every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
	fs         fsutil.FileSystem
}

// loadConfig reads --config, or returns an empty config so that every
// field takes its default.
func (o *rootOptions) loadConfig() (*config.RunConfig, error) {
	if o.configPath == "" {
		return config.EmptyRunConfig(), nil
	}
	return config.LoadRunConfig(o.configPath)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{fs: fsutil.OSFileSystem{}}

	cmd := &cobra.Command{
		Use:   "advection",
		Short: "Periodic 1-D advection testbed",
		Long: `advection transports a unit step around a periodic domain with every
combination of stepping and interpolation scheme, plus the direct
Lax-Wendroff variants, and scores each result against the exact solution.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			monitoring.SetVerbose(opts.verbose)
		},
	}

	// Persistent flags (available to all commands)
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Run configuration file (.json, .yaml or .yml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newAdvectCmd(opts),
		newInterpCmd(opts),
		newPlotCmd(opts),
		newRunsCmd(opts),
		newServeCmd(opts),
		newMigrateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
