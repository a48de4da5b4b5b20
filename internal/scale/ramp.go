package scale

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Ramp is a continuous color scheme interpolated through a B-spline over a
// list of stops.
type Ramp struct {
	Name  string
	stops []drawing.Color
}

// Reds runs from near white at t=0 to dark red at t=1.
var Reds = NewRamp("Reds",
	"fff5f0", "fee0d2", "fcbba1", "fc9272", "fb6a4a", "ef3b2c", "cb181d", "a50f15", "67000d")

// Blues runs from near white at t=0 to dark blue at t=1.
var Blues = NewRamp("Blues",
	"f7fbff", "deebf7", "c6dbef", "9ecae1", "6baed6", "4292c6", "2171b5", "08519c", "08306b")

// NewRamp parses hex stops such as "fc9272". At least two stops are required.
func NewRamp(name string, hex ...string) Ramp {
	if len(hex) < 2 {
		panic("scale: a ramp needs at least two stops")
	}
	stops := make([]drawing.Color, len(hex))
	for i, h := range hex {
		stops[i] = drawing.ColorFromHex(h)
	}
	return Ramp{Name: name, stops: stops}
}

// At returns the color at t, clamped to [0, 1].
func (r Ramp) At(t float64) drawing.Color {
	red := make([]float64, len(r.stops))
	green := make([]float64, len(r.stops))
	blue := make([]float64, len(r.stops))
	for i, c := range r.stops {
		red[i], green[i], blue[i] = float64(c.R), float64(c.G), float64(c.B)
	}
	return drawing.Color{
		R: channel(basisSpline(red, t)),
		G: channel(basisSpline(green, t)),
		B: channel(basisSpline(blue, t)),
		A: 255,
	}
}

// CSS formats a color as "rgb(r, g, b)".
func CSS(c drawing.Color) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Luminance returns the relative luminance of c in [0, 1].
func Luminance(c drawing.Color) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.04045 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

func basisSpline(values []float64, t float64) float64 {
	n := len(values) - 1
	var i int
	switch {
	case t <= 0 || math.IsNaN(t):
		t, i = 0, 0
	case t >= 1:
		t, i = 1, n-1
	default:
		i = int(math.Floor(t * float64(n)))
	}
	v1, v2 := values[i], values[i+1]
	v0 := 2*v1 - v2
	if i > 0 {
		v0 = values[i-1]
	}
	v3 := 2*v2 - v1
	if i < n-1 {
		v3 = values[i+2]
	}
	return basis((t-float64(i)/float64(n))*float64(n), v0, v1, v2, v3)
}

func basis(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1
	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Floor(v+0.5))))
}
