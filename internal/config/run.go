package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/advection/internal/advect"
	"github.com/banshee-data/advection/internal/grid"
	"github.com/banshee-data/advection/internal/interp"
	"github.com/banshee-data/advection/internal/profile"
)

// RunConfig describes one advection experiment: the grid, the transport,
// the initial profile and which schemes to compare. Unset fields fall back to
// the defaults reported by the Get* accessors, so partial files are safe.
type RunConfig struct {
	// Grid
	DomainSize *float64 `json:"domain_size,omitempty" yaml:"domain_size,omitempty"`
	Samples    *int     `json:"samples,omitempty" yaml:"samples,omitempty"`

	// Transport
	Velocity  *float64 `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	CFL       *float64 `json:"cfl,omitempty" yaml:"cfl,omitempty"`
	FinalTime *float64 `json:"final_time,omitempty" yaml:"final_time,omitempty"`

	// Initial condition over (step_lo, step_hi): "step" or "gaussian"
	Profile *string  `json:"profile,omitempty" yaml:"profile,omitempty"`
	StepLo  *float64 `json:"step_lo,omitempty" yaml:"step_lo,omitempty"`
	StepHi  *float64 `json:"step_hi,omitempty" yaml:"step_hi,omitempty"`

	// Interpolation demo
	InterpSamples  *int `json:"interp_samples,omitempty" yaml:"interp_samples,omitempty"`
	ResamplePoints *int `json:"resample_points,omitempty" yaml:"resample_points,omitempty"`

	// Scheme selection by name; empty means all.
	Steppings      []string `json:"steppings,omitempty" yaml:"steppings,omitempty"`
	Interpolations []string `json:"interpolations,omitempty" yaml:"interpolations,omitempty"`
	DirectSchemes  []string `json:"direct_schemes,omitempty" yaml:"direct_schemes,omitempty"`

	// Output
	OutputDir *string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	DBPath    *string `json:"db_path,omitempty" yaml:"db_path,omitempty"` // empty disables persistence
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyRunConfig returns a RunConfig with every field unset.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// DefaultRunConfig returns a RunConfig with every scalar field set to its
// default.
func DefaultRunConfig() *RunConfig {
	return EmptyRunConfig().Effective()
}

// Effective returns a copy of c with every unset scalar replaced by its
// default. Scheme lists are copied as given.
func (c *RunConfig) Effective() *RunConfig {
	return &RunConfig{
		DomainSize:     ptrFloat64(c.GetDomainSize()),
		Samples:        ptrInt(c.GetSamples()),
		Velocity:       ptrFloat64(c.GetVelocity()),
		CFL:            ptrFloat64(c.GetCFL()),
		FinalTime:      ptrFloat64(c.GetFinalTime()),
		Profile:        ptrString(c.GetProfile()),
		StepLo:         ptrFloat64(c.GetStepLo()),
		StepHi:         ptrFloat64(c.GetStepHi()),
		InterpSamples:  ptrInt(c.GetInterpSamples()),
		ResamplePoints: ptrInt(c.GetResamplePoints()),
		Steppings:      append([]string(nil), c.Steppings...),
		Interpolations: append([]string(nil), c.Interpolations...),
		DirectSchemes:  append([]string(nil), c.DirectSchemes...),
		OutputDir:      ptrString(c.GetOutputDir()),
		DBPath:         ptrString(c.GetDBPath()),
	}
}

// LoadRunConfig loads a RunConfig from a .json, .yaml or .yml file.
// The file must be under 1MB. The result is validated.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	if _, err := grid.New(c.GetDomainSize(), c.GetSamples()); err != nil {
		return err
	}
	if _, err := grid.New(c.GetDomainSize(), c.GetInterpSamples()); err != nil {
		return fmt.Errorf("interp_samples: %w", err)
	}
	if v := c.GetVelocity(); math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("velocity must be finite, got %v", v)
	}
	if cfl := c.GetCFL(); !(cfl > 0) || math.IsInf(cfl, 0) {
		return fmt.Errorf("cfl must be positive, got %v", cfl)
	}
	if ft := c.GetFinalTime(); !(ft >= 0) || math.IsInf(ft, 0) {
		return fmt.Errorf("final_time must be non-negative, got %v", ft)
	}
	if n := c.substeps(); !(n <= MaxSubsteps) {
		return fmt.Errorf("cfl %v needs %.3g substeps, more than %d", c.GetCFL(), n, MaxSubsteps)
	}
	if lo, hi := c.GetStepLo(), c.GetStepHi(); !(lo < hi) {
		return fmt.Errorf("step_lo (%v) must be below step_hi (%v)", lo, hi)
	}
	if _, err := profile.Initial(c.GetProfile(), c.GetStepLo(), c.GetStepHi(), c.GetDomainSize()); err != nil {
		return err
	}
	if rp := c.GetResamplePoints(); rp < 1 {
		return fmt.Errorf("resample_points must be at least 1, got %d", rp)
	}
	if _, err := c.GetSteppings(); err != nil {
		return err
	}
	if _, err := c.GetInterpolations(); err != nil {
		return err
	}
	if _, err := c.GetDirectSchemes(); err != nil {
		return err
	}
	return nil
}

// Grid builds the advection grid.
func (c *RunConfig) Grid() (grid.Grid, error) {
	return grid.New(c.GetDomainSize(), c.GetSamples())
}

// InterpGrid builds the coarse grid of the interpolation demo.
func (c *RunConfig) InterpGrid() (grid.Grid, error) {
	return grid.New(c.GetDomainSize(), c.GetInterpSamples())
}

// MaxSubsteps caps the substep count Validate accepts.
const MaxSubsteps = 10_000_000

// substeps is the unrounded substep count; zero when the velocity is zero.
func (c *RunConfig) substeps() float64 {
	v := math.Abs(c.GetVelocity())
	if v == 0 {
		return 0
	}
	cellSize := c.GetDomainSize() / float64(c.GetSamples())
	maxDt := cellSize * c.GetCFL() / v
	return c.GetFinalTime() / maxDt
}

// Timing splits final_time into equal substeps no longer than
// cellSize*cfl/|velocity|. A zero velocity gives a single step. The config
// must be valid.
func (c *RunConfig) Timing() (dt float64, substeps int) {
	finalTime := c.GetFinalTime()
	substeps = max(int(math.Ceil(c.substeps())), 1)
	return finalTime / float64(substeps), substeps
}

// GetDomainSize returns the domain_size value or the default.
func (c *RunConfig) GetDomainSize() float64 {
	if c.DomainSize == nil {
		return 10
	}
	return *c.DomainSize
}

// GetSamples returns the samples value or the default.
func (c *RunConfig) GetSamples() int {
	if c.Samples == nil {
		return 500
	}
	return *c.Samples
}

// GetVelocity returns the velocity value or the default.
func (c *RunConfig) GetVelocity() float64 {
	if c.Velocity == nil {
		return 5
	}
	return *c.Velocity
}

// GetCFL returns the cfl value or the default.
func (c *RunConfig) GetCFL() float64 {
	if c.CFL == nil {
		return 0.25
	}
	return *c.CFL
}

// GetFinalTime returns the final_time value or the default.
func (c *RunConfig) GetFinalTime() float64 {
	if c.FinalTime == nil {
		return 4
	}
	return *c.FinalTime
}

// GetProfile returns the profile name or "step".
func (c *RunConfig) GetProfile() string {
	if c.Profile == nil || *c.Profile == "" {
		return profile.StepName
	}
	return *c.Profile
}

// GetStepLo returns the step_lo value or the default.
func (c *RunConfig) GetStepLo() float64 {
	if c.StepLo == nil {
		return 2.5
	}
	return *c.StepLo
}

// GetStepHi returns the step_hi value or the default.
func (c *RunConfig) GetStepHi() float64 {
	if c.StepHi == nil {
		return 7.5
	}
	return *c.StepHi
}

// GetInterpSamples returns the interp_samples value or the default.
func (c *RunConfig) GetInterpSamples() int {
	if c.InterpSamples == nil {
		return 10
	}
	return *c.InterpSamples
}

// GetResamplePoints returns the resample_points value or the default.
func (c *RunConfig) GetResamplePoints() int {
	if c.ResamplePoints == nil {
		return 1000
	}
	return *c.ResamplePoints
}

// GetOutputDir returns the output_dir value or the default.
func (c *RunConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "out"
	}
	return *c.OutputDir
}

// GetDBPath returns the db_path value; empty means no persistence.
func (c *RunConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetSteppings resolves the steppings list. Empty selects every stepping.
func (c *RunConfig) GetSteppings() ([]advect.Stepping, error) {
	if len(c.Steppings) == 0 {
		return advect.Steppings(), nil
	}
	out := make([]advect.Stepping, 0, len(c.Steppings))
	for _, name := range c.Steppings {
		s, err := advect.ParseStepping(name)
		if err != nil {
			return nil, fmt.Errorf("steppings: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// GetInterpolations resolves the interpolations list. Empty selects every
// scheme.
func (c *RunConfig) GetInterpolations() ([]interp.Scheme, error) {
	if len(c.Interpolations) == 0 {
		return interp.Schemes(), nil
	}
	out := make([]interp.Scheme, 0, len(c.Interpolations))
	for _, name := range c.Interpolations {
		s, err := interp.ParseScheme(name)
		if err != nil {
			return nil, fmt.Errorf("interpolations: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// GetDirectSchemes resolves the direct_schemes list. Empty selects every
// direct scheme.
func (c *RunConfig) GetDirectSchemes() ([]advect.Scheme, error) {
	if len(c.DirectSchemes) == 0 {
		return advect.Schemes(), nil
	}
	out := make([]advect.Scheme, 0, len(c.DirectSchemes))
	for _, name := range c.DirectSchemes {
		s, err := advect.ParseScheme(name)
		if err != nil {
			return nil, fmt.Errorf("direct_schemes: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}
