package advect

import (
	"fmt"
	"strings"
)

// Stepping selects a characteristic-tracing scheme. Every Stepping is
// parameterised by an interp.Scheme used for all of its reconstructions.
type Stepping int

const (
	// SemiLagrangian traces each sample back along the characteristic once.
	SemiLagrangian Stepping = iota
	// MacCormack adds a backward pass and corrects by half the round-trip
	// error: A + (P - B)/2.
	MacCormack
	// BFECC compensates the input by half the round-trip error, (3P - B)/2,
	// then traces forward again.
	BFECC
)

var steppings = []Stepping{SemiLagrangian, MacCormack, BFECC}

// Steppings returns every stepping scheme in declaration order.
func Steppings() []Stepping {
	out := make([]Stepping, len(steppings))
	copy(out, steppings)
	return out
}

// Valid reports whether s is one of Steppings().
func (s Stepping) Valid() bool {
	return s >= SemiLagrangian && s <= BFECC
}

func (s Stepping) String() string {
	switch s {
	case SemiLagrangian:
		return "SemiLagrangian"
	case MacCormack:
		return "MacCormack"
	case BFECC:
		return "BFECC"
	default:
		panic(fmt.Sprintf("advect: unknown stepping %d", int(s)))
	}
}

// ParseStepping resolves a stepping name case-insensitively.
func ParseStepping(name string) (Stepping, error) {
	for _, s := range steppings {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown stepping scheme %q", name)
}

// Scheme selects a direct finite-difference update.
type Scheme int

const (
	// LaxWendroffCDS is the cell-based central form with Courant number
	// dt*v/dx evaluated per cell.
	LaxWendroffCDS Scheme = iota
	// LaxWendroffCDF expands about the departure point located with
	// Grid.GridSpace, using its fractional offset as the Courant number.
	LaxWendroffCDF
)

var directSchemes = []Scheme{LaxWendroffCDS, LaxWendroffCDF}

// Schemes returns every direct scheme in declaration order.
func Schemes() []Scheme {
	out := make([]Scheme, len(directSchemes))
	copy(out, directSchemes)
	return out
}

// Valid reports whether s is one of Schemes().
func (s Scheme) Valid() bool {
	return s >= LaxWendroffCDS && s <= LaxWendroffCDF
}

func (s Scheme) String() string {
	switch s {
	case LaxWendroffCDS:
		return "LaxWendroffCDS"
	case LaxWendroffCDF:
		return "LaxWendroffCDF"
	default:
		panic(fmt.Sprintf("advect: unknown advection scheme %d", int(s)))
	}
}

// ParseScheme resolves a direct scheme name case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range directSchemes {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown advection scheme %q", name)
}
