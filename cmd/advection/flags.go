package main

import (
	"github.com/spf13/cobra"

	"github.com/banshee-data/advection/internal/config"
)

// runFlags override individual RunConfig fields from the command line.
type runFlags struct {
	samples   int
	velocity  float64
	cfl       float64
	finalTime float64
	profile   string
	outputDir string
	dbPath    string

	steppings      []string
	interpolations []string
	directSchemes  []string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.samples, "samples", 0, "Number of grid samples")
	fl.Float64Var(&f.velocity, "velocity", 0, "Advection velocity")
	fl.Float64Var(&f.cfl, "cfl", 0, "Courant number bound for the time step")
	fl.Float64Var(&f.finalTime, "final-time", 0, "Simulated time")
	fl.StringVar(&f.profile, "profile", "", "Initial condition: step or gaussian (default step)")
	fl.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for .dat, PNG and HTML output")
	fl.StringVar(&f.dbPath, "db", "", "SQLite database recording run summaries")
	fl.StringSliceVar(&f.steppings, "stepping", nil, "Steppings to run (default all)")
	fl.StringSliceVar(&f.interpolations, "interp", nil, "Interpolation schemes to run (default all)")
	fl.StringSliceVar(&f.directSchemes, "direct", nil, "Direct schemes to run (default all)")
}

// apply copies every flag the user set onto cfg and validates the result.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.RunConfig) error {
	changed := cmd.Flags().Changed
	if changed("samples") {
		cfg.Samples = &f.samples
	}
	if changed("velocity") {
		cfg.Velocity = &f.velocity
	}
	if changed("cfl") {
		cfg.CFL = &f.cfl
	}
	if changed("final-time") {
		cfg.FinalTime = &f.finalTime
	}
	if changed("profile") {
		cfg.Profile = &f.profile
	}
	if changed("output-dir") {
		cfg.OutputDir = &f.outputDir
	}
	if changed("db") {
		cfg.DBPath = &f.dbPath
	}
	if changed("stepping") {
		cfg.Steppings = f.steppings
	}
	if changed("interp") {
		cfg.Interpolations = f.interpolations
	}
	if changed("direct") {
		cfg.DirectSchemes = f.directSchemes
	}
	return cfg.Validate()
}

// runConfig loads --config and applies f on top of it.
func (o *rootOptions) runConfig(cmd *cobra.Command, f *runFlags) (*config.RunConfig, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := f.apply(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
