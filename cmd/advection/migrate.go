package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var dbPath string

	open := func(cmd *cobra.Command) (*db.DB, error) {
		cfg, err := opts.loadConfig()
		if err != nil {
			return nil, err
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = &dbPath
		}
		path := cfg.GetDBPath()
		if path == "" {
			return nil, fmt.Errorf("no database configured: set db_path or pass --db")
		}
		return db.OpenDB(path)
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run store schema",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database (default db_path from config)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open(cmd)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.MigrateUp(); err != nil {
				return err
			}
			return printStatus(cmd, database)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open(cmd)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := database.MigrateDown(); err != nil {
				return err
			}
			return printStatus(cmd, database)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current and latest schema versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := open(cmd)
			if err != nil {
				return err
			}
			defer database.Close()
			return printStatus(cmd, database)
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func printStatus(cmd *cobra.Command, database *db.DB) error {
	s, err := database.Status()
	if err != nil {
		return err
	}
	dirty := ""
	if s.Dirty {
		dirty = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d of %d%s, %d pending\n", s.Current, s.Latest, dirty, s.Pending())
	return nil
}
