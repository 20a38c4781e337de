package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/runner"
)

func newInterpCmd(opts *rootOptions) *cobra.Command {
	var (
		flags  runFlags
		noPlot bool
	)

	cmd := &cobra.Command{
		Use:   "interp",
		Short: "Resample the staircase profile with every interpolation scheme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd, &flags)
			if err != nil {
				return err
			}
			schemes, err := cfg.GetInterpolations()
			if err != nil {
				return err
			}
			curves, err := runner.InterpolationCurves(cfg, schemes)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("Interpolation of %d samples", cfg.GetInterpSamples())
			if err := writeCurves(opts.fs, cfg.GetOutputDir(), "interpolation", title, curves, !noPlot); err != nil {
				return err
			}
			for _, c := range curves {
				fmt.Fprintln(cmd.OutOrStdout(), c.Name)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "Skip the PNG and HTML overviews")
	return cmd
}
