package scale

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Sequential maps a numeric domain onto a color ramp.
type Sequential struct {
	d0, d1 float64
	ramp   Ramp
}

// NewSequential returns a sequential color scale over [d0, d1].
func NewSequential(d0, d1 float64, ramp Ramp) Sequential {
	return Sequential{d0: d0, d1: d1, ramp: ramp}
}

// T returns the ramp parameter for v. A degenerate domain yields 0.5 and a
// missing value yields NaN.
func (s Sequential) T(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	k := s.d1 - s.d0
	if k == 0 || math.IsNaN(k) {
		return 0.5
	}
	return (v - s.d0) / k
}

// Color returns the ramp color for v. The second result is false for a
// missing value.
func (s Sequential) Color(v float64) (drawing.Color, bool) {
	t := s.T(v)
	if math.IsNaN(t) {
		return drawing.Color{}, false
	}
	return s.ramp.At(t), true
}

// Fill returns the CSS fill for v, or fallback when v is missing.
func (s Sequential) Fill(v float64, fallback string) string {
	c, ok := s.Color(v)
	if !ok {
		return fallback
	}
	return CSS(c)
}

// Domain returns the domain bounds.
func (s Sequential) Domain() (float64, float64) { return s.d0, s.d1 }

// Ramp returns the color scheme.
func (s Sequential) Ramp() Ramp { return s.ramp }
