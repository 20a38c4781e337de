// Package runner drives complete advection experiments: it builds the grid
// and initial profile from a RunConfig, steps an engine to the final time
// and scores the result against the analytically translated profile.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/advection/internal/advect"
	"github.com/banshee-data/advection/internal/analysis"
	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/grid"
	"github.com/banshee-data/advection/internal/interp"
	"github.com/banshee-data/advection/internal/monitoring"
	"github.com/banshee-data/advection/internal/output"
	"github.com/banshee-data/advection/internal/profile"
	"github.com/banshee-data/advection/internal/timeutil"
)

// Result is the outcome of one Case.
type Result struct {
	Case      Case
	Name      string
	Field     *grid.Data
	Summary   analysis.Summary
	Dt        float64
	Substeps  int
	StartedAt time.Time
	Duration  time.Duration
}

// Curve returns the final field as (position, value) samples.
func (r Result) Curve() output.Curve {
	xs := make([]float64, r.Field.Len())
	for i := range xs {
		xs[i] = r.Field.Position(i)
	}
	return output.Curve{Name: r.Name, X: xs, Y: r.Field.Values()}
}

// Runner executes cases for one configuration. The zero Clock and
// Recorder fall back to the real clock and a no-op recorder.
type Runner struct {
	Config   *config.RunConfig
	Clock    timeutil.Clock
	Recorder monitoring.Recorder
}

// New returns a Runner for cfg with the real clock and no metrics.
func New(cfg *config.RunConfig) *Runner {
	return &Runner{Config: cfg, Clock: timeutil.RealClock{}, Recorder: monitoring.NopRecorder{}}
}

func (r *Runner) clock() timeutil.Clock {
	if r.Clock == nil {
		return timeutil.RealClock{}
	}
	return r.Clock
}

func (r *Runner) recorder() monitoring.Recorder {
	if r.Recorder == nil {
		return monitoring.NopRecorder{}
	}
	return r.Recorder
}

func (r *Runner) initial() (profile.Profile, error) {
	return profile.Initial(r.Config.GetProfile(), r.Config.GetStepLo(), r.Config.GetStepHi(), r.Config.GetDomainSize())
}

// Reference samples the initial profile translated by velocity*final_time.
func (r *Runner) Reference(g grid.Grid) (*grid.Data, error) {
	p, err := r.initial()
	if err != nil {
		return nil, err
	}
	return profile.New(g, profile.Shifted{
		Profile:    p,
		Shift:      r.Config.GetVelocity() * r.Config.GetFinalTime(),
		DomainSize: g.DomainSize(),
	}), nil
}

// Run executes c to completion. ctx is checked between steps; a cancelled
// run returns ctx's error and no result.
func (r *Runner) Run(ctx context.Context, c Case) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}
	g, err := r.Config.Grid()
	if err != nil {
		return Result{}, fmt.Errorf("invalid grid: %w", err)
	}

	name := c.Name()
	dt, substeps := r.Config.Timing()
	v := r.Config.GetVelocity()
	initial, err := r.initial()
	if err != nil {
		return Result{}, err
	}
	ref, err := r.Reference(g)
	if err != nil {
		return Result{}, err
	}

	clock := r.clock()
	start := clock.Now()

	var field *grid.Data
	steps := 0
	switch c.Kind {
	case Reference:
		field = ref.Clone()
	default:
		field = profile.New(g, initial)
		for ; steps < substeps; steps++ {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("%s cancelled after %d/%d steps: %w", name, steps, substeps, err)
			}
			if c.Kind == Traced {
				advect.Step(field, dt, v, c.Stepping, c.Interp)
			} else {
				advect.StepDirect(field, dt, v, c.Direct)
			}
		}
	}

	elapsed := clock.Since(start)
	summary := analysis.Summarize(field, ref)

	rec := r.recorder()
	rec.ObserveSteps(name, steps)
	rec.ObserveRun(name, elapsed, summary.L2Error)
	monitoring.Logf("%s: %d steps of dt=%g in %v, L2=%.6g max=%.6g overshoot=%.3g",
		name, steps, dt, elapsed, summary.L2Error, summary.MaxError, summary.Overshoot)

	return Result{
		Case:      c,
		Name:      name,
		Field:     field,
		Summary:   summary,
		Dt:        dt,
		Substeps:  steps,
		StartedAt: start,
		Duration:  elapsed,
	}, nil
}

// RunAll runs cases concurrently and returns their results sorted by name.
// The first failure cancels the remaining cases.
func (r *Runner) RunAll(ctx context.Context, cases []Case) ([]Result, error) {
	results := make([]Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range cases {
		g.Go(func() error {
			res, err := r.Run(ctx, c)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

// InterpolationCurves resamples the staircase profile on the coarse demo
// grid with each scheme at resample_points evenly spaced positions.
func InterpolationCurves(cfg *config.RunConfig, schemes []interp.Scheme) ([]output.Curve, error) {
	g, err := cfg.InterpGrid()
	if err != nil {
		return nil, fmt.Errorf("invalid interpolation grid: %w", err)
	}
	d := profile.Staircase(g)

	curves := make([]output.Curve, 0, len(schemes))
	for _, s := range schemes {
		if !s.Valid() {
			return nil, fmt.Errorf("unknown interpolation scheme %d", int(s))
		}
		xs, ys := interp.Resample(d, s, cfg.GetResamplePoints())
		curves = append(curves, output.Curve{Name: "interpolation" + s.String(), X: xs, Y: ys})
	}
	return curves, nil
}
