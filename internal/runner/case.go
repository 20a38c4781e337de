package runner

import (
	"fmt"

	"github.com/banshee-data/advection/internal/advect"
	"github.com/banshee-data/advection/internal/config"
	"github.com/banshee-data/advection/internal/interp"
)

// Kind distinguishes the engine family a Case runs.
type Kind int

const (
	// Traced runs a semi-Lagrangian Stepping with an interpolation scheme.
	Traced Kind = iota
	// Direct runs a Lax-Wendroff scheme.
	Direct
	// Reference is the analytic solution, sampled without stepping.
	Reference
)

func (k Kind) String() string {
	switch k {
	case Traced:
		return "traced"
	case Direct:
		return "direct"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Case selects one experiment. Only the fields relevant to Kind are used.
type Case struct {
	Kind     Kind
	Stepping advect.Stepping
	Interp   interp.Scheme
	Direct   advect.Scheme
}

// TracedCase runs st with reconstruction is.
func TracedCase(st advect.Stepping, is interp.Scheme) Case {
	return Case{Kind: Traced, Stepping: st, Interp: is}
}

// DirectCase runs the Lax-Wendroff variant s.
func DirectCase(s advect.Scheme) Case {
	return Case{Kind: Direct, Direct: s}
}

// ReferenceCase samples the analytic solution.
func ReferenceCase() Case {
	return Case{Kind: Reference}
}

// Name is the output label of the case, also used as the .dat file stem
// and the metrics label.
func (c Case) Name() string {
	switch c.Kind {
	case Traced:
		return "advection_" + c.Stepping.String() + "_" + c.Interp.String()
	case Direct:
		return "advection_" + c.Direct.String()
	case Reference:
		return "advection_Reference"
	default:
		panic(fmt.Sprintf("runner: unknown case kind %d", int(c.Kind)))
	}
}

// Validate reports whether every scheme the case uses is known.
func (c Case) Validate() error {
	switch c.Kind {
	case Traced:
		if !c.Stepping.Valid() {
			return fmt.Errorf("unknown stepping %d", int(c.Stepping))
		}
		if !c.Interp.Valid() {
			return fmt.Errorf("unknown interpolation scheme %d", int(c.Interp))
		}
	case Direct:
		if !c.Direct.Valid() {
			return fmt.Errorf("unknown advection scheme %d", int(c.Direct))
		}
	case Reference:
	default:
		return fmt.Errorf("unknown case kind %d", int(c.Kind))
	}
	return nil
}

// Cases expands the scheme lists of cfg: every stepping paired with every
// interpolation, then every direct scheme, then the reference.
func Cases(cfg *config.RunConfig) ([]Case, error) {
	steppings, err := cfg.GetSteppings()
	if err != nil {
		return nil, err
	}
	interps, err := cfg.GetInterpolations()
	if err != nil {
		return nil, err
	}
	directs, err := cfg.GetDirectSchemes()
	if err != nil {
		return nil, err
	}

	cases := make([]Case, 0, len(steppings)*len(interps)+len(directs)+1)
	for _, st := range steppings {
		for _, is := range interps {
			cases = append(cases, TracedCase(st, is))
		}
	}
	for _, s := range directs {
		cases = append(cases, DirectCase(s))
	}
	return append(cases, ReferenceCase()), nil
}
