// Package scale maps data values to pixel positions and colors.
//
// The scales reproduce the arithmetic of the common browser charting
// conventions (band, linear and sequential scales, "nice" tick steps, and
// B-spline color ramps) so server-rendered output lines up with what a
// client-side chart of the same data would draw.
package scale
