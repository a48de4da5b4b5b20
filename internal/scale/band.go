package scale

import "math"

// Band divides a continuous range into evenly spaced bands, one per domain
// value, separated by padding expressed as a fraction of the step.
type Band struct {
	domain    []int
	index     map[int]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand builds a band scale over [r0, r1] with equal inner and outer
// padding and centered alignment.
func NewBand(domain []int, r0, r1, padding float64) Band {
	return NewBandAligned(domain, r0, r1, padding, padding, 0.5)
}

// NewBandAligned builds a band scale with explicit inner and outer padding
// and alignment in [0, 1].
func NewBandAligned(domain []int, r0, r1, paddingInner, paddingOuter, align float64) Band {
	b := Band{
		domain: append([]int(nil), domain...),
		index:  make(map[int]int, len(domain)),
	}
	for i, v := range b.domain {
		if _, dup := b.index[v]; !dup {
			b.index[v] = i
		}
	}

	n := float64(len(b.domain))
	start, stop := math.Min(r0, r1), math.Max(r0, r1)
	b.step = (stop - start) / math.Max(1, n-paddingInner+paddingOuter*2)
	start += (stop - start - b.step*(n-paddingInner)) * align
	b.start = start
	b.bandwidth = b.step * (1 - paddingInner)
	return b
}

// Position returns the start coordinate of the band for v.
func (b Band) Position(v int) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Center returns the midpoint of the band for v.
func (b Band) Center(v int) (float64, bool) {
	p, ok := b.Position(v)
	return p + b.bandwidth/2, ok
}

// Bandwidth is the width of each band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Domain returns a copy of the domain values in band order.
func (b Band) Domain() []int { return append([]int(nil), b.domain...) }
