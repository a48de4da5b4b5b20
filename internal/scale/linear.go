package scale

import "math"

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a linear scale from [d0, d1] to [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map returns the range value for x. A degenerate domain maps everything to
// the middle of the range.
func (l Linear) Map(x float64) float64 {
	return lerp(l.r0, l.r1, normalize(l.d0, l.d1, x))
}

// Invert returns the domain value for a range value y.
func (l Linear) Invert(y float64) float64 {
	return lerp(l.d0, l.d1, normalize(l.r0, l.r1, y))
}

// Domain returns the domain bounds.
func (l Linear) Domain() (float64, float64) { return l.d0, l.d1 }

// Range returns the range bounds.
func (l Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Ticks returns roughly count human-friendly values spanning the domain.
func (l Linear) Ticks(count int) []float64 {
	return Ticks(l.d0, l.d1, count)
}

func normalize(a, b, x float64) float64 {
	if b-a == 0 || math.IsNaN(b-a) {
		if math.IsNaN(x) {
			return x
		}
		return 0.5
	}
	return (x - a) / (b - a)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
