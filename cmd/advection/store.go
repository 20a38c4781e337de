package main

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/db"
	"github.com/banshee-data/advection/internal/runner"
)

// openStore opens and migrates the configured database. It returns a nil
// store when persistence is disabled.
func openStore(cfg *config.RunConfig) (*db.DB, *db.RunStore, error) {
	path := cfg.GetDBPath()
	if path == "" {
		return nil, nil, nil
	}
	database, err := db.OpenMigrated(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return database, db.NewRunStore(database), nil
}

// requireStore is openStore for commands that cannot work without one.
func requireStore(cfg *config.RunConfig) (*db.DB, *db.RunStore, error) {
	database, store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, fmt.Errorf("no database configured: set db_path or pass --db")
	}
	return database, store, nil
}

// runRecord converts a result into the row stored for it.
func runRecord(res runner.Result, cfg *config.RunConfig, configJSON json.RawMessage) *db.RunRecord {
	r := &db.RunRecord{
		Name:           res.Name,
		Kind:           res.Case.Kind.String(),
		DomainSize:     cfg.GetDomainSize(),
		Samples:        cfg.GetSamples(),
		Velocity:       cfg.GetVelocity(),
		Dt:             res.Dt,
		Substeps:       res.Substeps,
		L2Error:        res.Summary.L2Error,
		MaxError:       res.Summary.MaxError,
		MassDrift:      res.Summary.MassDrift,
		Overshoot:      res.Summary.Overshoot,
		TotalVariation: res.Summary.TotalVariation,
		DurationNanos:  res.Duration.Nanoseconds(),
		ConfigJSON:     configJSON,
		CreatedAt:      res.StartedAt.UnixNano(),
	}
	switch res.Case.Kind {
	case runner.Traced:
		r.Stepping = res.Case.Stepping.String()
		r.Interpolation = res.Case.Interp.String()
	case runner.Direct:
		r.Direct = res.Case.Direct.String()
	}
	return r
}

// storeResults records every result under one config snapshot.
func storeResults(store *db.RunStore, cfg *config.RunConfig, results []runner.Result) error {
	configJSON, err := json.Marshal(cfg.Effective())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	for _, res := range results {
		if err := store.Insert(runRecord(res, cfg, configJSON)); err != nil {
			return err
		}
	}
	return nil
}
