package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/fsutil"
	"github.com/banshee-data/advection/internal/monitoring"
	"github.com/banshee-data/advection/internal/output"
	"github.com/banshee-data/advection/internal/security"
)

func newPlotCmd(opts *rootOptions) *cobra.Command {
	var (
		dir     string
		pattern string
		out     string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "plot [name...]",
		Short: "Plot previously dumped .dat curves to a PNG",
		Long: `Reads .dat curves from the output directory and draws them into one PNG.
Curves are selected by name (the file stem) or, with no names, by --pattern.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("output-dir") {
				cfg, err := opts.loadConfig()
				if err != nil {
					return err
				}
				dir = cfg.GetOutputDir()
			}

			paths, err := curvePaths(opts.fs, dir, pattern, args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no curves matching %s in %s", pattern, dir)
			}

			curves := make([]output.Curve, 0, len(paths))
			for _, p := range paths {
				c, err := output.ReadDat(opts.fs, p)
				if err != nil {
					return err
				}
				curves = append(curves, c)
			}

			if out == "" {
				out = filepath.Join(dir, "plot.png")
			}
			if err := output.SavePlot(opts.fs, out, title, curves); err != nil {
				return err
			}
			monitoring.Logf("plotted %d curves to %s", len(curves), out)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output-dir", "o", "out", "Directory holding the .dat files")
	cmd.Flags().StringVar(&pattern, "pattern", "advection_*.dat", "Glob selecting curves when no names are given")
	cmd.Flags().StringVar(&out, "out", "", "PNG to write (default <output-dir>/plot.png)")
	cmd.Flags().StringVar(&title, "title", "", "Plot title")
	return cmd
}

// curvePaths resolves named curves inside dir, or globs pattern there.
func curvePaths(fs fsutil.FileSystem, dir, pattern string, names []string) ([]string, error) {
	if len(names) == 0 {
		return fs.Glob(filepath.Join(dir, pattern))
	}

	paths := make([]string, len(names))
	for i, name := range names {
		if err := security.ValidateName(name); err != nil {
			return nil, err
		}
		paths[i] = output.DatPath(dir, name)
		if _, ok := fs.(fsutil.OSFileSystem); ok {
			if err := security.ValidatePathWithinDirectory(paths[i], dir); err != nil {
				return nil, err
			}
		}
		if !fs.Exists(paths[i]) {
			return nil, fmt.Errorf("curve %s not found in %s", name, dir)
		}
	}
	return paths, nil
}
