package interp

import (
	"fmt"
	"strings"
)

// Scheme selects a reconstruction stencil. The set is closed: every switch
// over Scheme handles all values in Schemes() and panics otherwise.
type Scheme int

const (
	// Linear blends the two bracketing samples. C0, monotone.
	Linear Scheme = iota
	// CatmullRom is a cubic Hermite with central-difference slopes.
	// C1, may overshoot.
	CatmullRom
	// MonotonicCubicFedkiw clamps slopes and the result to the bracketing
	// samples (Fedkiw et al. 2001, "Visual Simulation of Smoke").
	MonotonicCubicFedkiw
	// MonotonicCubicFritschCarlson clamps and rescales slopes so the cubic
	// stays monotone without an end-point clamp.
	MonotonicCubicFritschCarlson
)

var schemes = []Scheme{Linear, CatmullRom, MonotonicCubicFedkiw, MonotonicCubicFritschCarlson}

// Schemes returns every interpolation scheme in declaration order.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes)
	return out
}

// Valid reports whether s is one of Schemes().
func (s Scheme) Valid() bool {
	return s >= Linear && s <= MonotonicCubicFritschCarlson
}

// String implements fmt.Stringer.
func (s Scheme) String() string {
	switch s {
	case Linear:
		return "Linear"
	case CatmullRom:
		return "CatmullRom"
	case MonotonicCubicFedkiw:
		return "MonotonicCubicFedkiw"
	case MonotonicCubicFritschCarlson:
		return "MonotonicCubicFritschCarlson"
	default:
		panic(fmt.Sprintf("interp: unknown scheme %d", int(s)))
	}
}

// ParseScheme resolves a scheme name case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range schemes {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation scheme %q", name)
}
