package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/db"
)

func newRunsCmd(opts *rootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
		asJSON bool
		filter db.RunFilter
		quiet  bool
	)

	withStore := func(cmd *cobra.Command, fn func(*db.RunStore) error) error {
		cfg, err := opts.loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = &dbPath
		}
		database, store, err := requireStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(store)
	}
	show := func(cmd *cobra.Command, runs []*db.RunRecord) error {
		if asJSON {
			if runs == nil {
				runs = []*db.RunRecord{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}
		return printRuns(cmd.OutOrStdout(), runs)
	}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored run summaries",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (default db_path from config)")
	cmd.PersistentFlags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 for all)")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *db.RunStore) error {
				runs, err := store.List(limit)
				if err != nil {
					return err
				}
				return show(cmd, runs)
			})
		},
	}

	best := &cobra.Command{
		Use:   "best",
		Short: "List runs with the lowest L2 error first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *db.RunStore) error {
				runs, err := store.Best(filter, limit)
				if err != nil {
					return err
				}
				return show(cmd, runs)
			})
		},
	}
	best.Flags().StringVar(&filter.Stepping, "stepping", "", "Only this stepping")
	best.Flags().StringVar(&filter.Interpolation, "interp", "", "Only this interpolation scheme")
	best.Flags().StringVar(&filter.Direct, "direct", "", "Only this direct scheme")
	best.Flags().IntVar(&filter.Samples, "samples", 0, "Only runs on this many samples")

	del := &cobra.Command{
		Use:   "delete <run-id>...",
		Short: "Delete stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *db.RunStore) error {
				for _, id := range args {
					if err := store.Delete(id); err != nil {
						return err
					}
					if !quiet {
						fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
					}
				}
				return nil
			})
		},
	}
	del.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print deleted IDs")

	cmd.AddCommand(list, best, del)
	return cmd
}

func printRuns(w io.Writer, runs []*db.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tNAME\tN\tSTEPS\tL2\tMAX\tOVERSHOOT\tTIME\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.6g\t%.6g\t%.3g\t%v\t%s\n",
			r.RunID, r.Name, r.Samples, r.Substeps, r.L2Error, r.MaxError, r.Overshoot,
			time.Duration(r.DurationNanos),
			time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
