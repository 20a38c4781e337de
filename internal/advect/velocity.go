package advect

// Velocity gives the transport speed at a coordinate.
type Velocity interface {
	At(x float64) float64
}

// Uniform is a constant velocity.
type Uniform float64

// At returns the constant speed.
func (u Uniform) At(float64) float64 { return float64(u) }

// Field is a position-dependent velocity. It must be safe for concurrent
// calls.
type Field func(x float64) float64

// At evaluates the field at x.
func (f Field) At(x float64) float64 { return f(x) }
