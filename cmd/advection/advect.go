package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/fsutil"
	"github.com/banshee-data/advection/internal/monitoring"
	"github.com/banshee-data/advection/internal/output"
	"github.com/banshee-data/advection/internal/runner"
)

func newAdvectCmd(opts *rootOptions) *cobra.Command {
	var (
		flags       runFlags
		noPlot      bool
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "advect",
		Short: "Run the scheme comparison and dump the final fields",
		Long: `Runs every configured case to the final time, writes one .dat file per
case plus advection.png and advection.html to the output directory, and
prints the error table. Results are stored when a database is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd, &flags)
			if err != nil {
				return err
			}
			cases, err := runner.Cases(cfg)
			if err != nil {
				return err
			}

			metrics := monitoring.NewMetrics()
			rn := runner.New(cfg)
			rn.Recorder = metrics

			dt, substeps := cfg.Timing()
			monitoring.Logf("running %d cases: %d steps of dt=%g", len(cases), substeps, dt)
			results, err := rn.RunAll(cmd.Context(), cases)
			if err != nil {
				return err
			}

			curves := make([]output.Curve, len(results))
			for i, res := range results {
				curves[i] = res.Curve()
			}
			if err := writeCurves(opts.fs, cfg.GetOutputDir(), "advection", advectionTitle(cfg), curves, !noPlot); err != nil {
				return err
			}

			if metricsFile != "" {
				if err := metrics.WriteTextfile(metricsFile); err != nil {
					return err
				}
			}

			database, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer database.Close()
				if err := storeResults(store, cfg, results); err != nil {
					return err
				}
				monitoring.Logf("stored %d runs in %s", len(results), cfg.GetDBPath())
			}

			return printResults(cmd.OutOrStdout(), results)
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "Skip the PNG and HTML overviews")
	cmd.Flags().StringVar(&metricsFile, "metrics-textfile", "", "Write Prometheus metrics to this file")
	return cmd
}

func advectionTitle(cfg *config.RunConfig) string {
	return fmt.Sprintf("Advection N=%d v=%g CFL=%g T=%g",
		cfg.GetSamples(), cfg.GetVelocity(), cfg.GetCFL(), cfg.GetFinalTime())
}

// writeCurves dumps every curve as .dat and, when plots is set, writes
// <stem>.png and <stem>.html alongside them.
func writeCurves(fs fsutil.FileSystem, dir, stem, title string, curves []output.Curve, plots bool) error {
	for _, c := range curves {
		path, err := output.WriteDat(fs, dir, c)
		if err != nil {
			return err
		}
		monitoring.Debugf("wrote %s", path)
	}
	if !plots {
		return nil
	}

	if err := output.SavePlot(fs, filepath.Join(dir, stem+".png"), title, curves); err != nil {
		return err
	}

	htmlPath := filepath.Join(dir, stem+".html")
	f, err := fs.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", htmlPath, err)
	}
	if err := output.RenderChart(f, title, "", curves); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", htmlPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}
	monitoring.Logf("wrote %d curves to %s", len(curves), dir)
	return nil
}

func printResults(w io.Writer, results []runner.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTEPS\tL2\tMAX\tMASS DRIFT\tOVERSHOOT\tTV\tTIME")
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(tw, "%s\t%d\t%.6g\t%.6g\t%.3g\t%.3g\t%.6g\t%v\n",
			r.Name, r.Substeps, s.L2Error, s.MaxError, s.MassDrift, s.Overshoot, s.TotalVariation, r.Duration)
	}
	return tw.Flush()
}
