package dsp

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/interp"
)

// TwoPi is 2π as used by the window and filter formulas.
const TwoPi = 2 * math.Pi

// Lerp blends a toward b by t (t=0 yields a, t=1 yields b).
func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Clip limits x to [lo, hi]. NaN maps to lo.
func Clip(x, lo, hi float32) float32 {
	if !(x >= lo) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// HanningWindow evaluates the raised-cosine window at phase in [0,1].
func HanningWindow(phase float64) float64 {
	return (1 - math.Cos(phase*TwoPi)) * 0.5
}

// Wrap01 wraps x into [0,1).
func Wrap01(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		// -tiny - floor(-tiny) rounds to 1
		return 0
	}
	return x
}

// WrapIndex wraps an integer index into [0,n).
func WrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// PeekCubic reads buf at a fractional frame position using 4-point cubic
// interpolation. The position may lie outside [0,len(buf)); every tap wraps.
func PeekCubic(buf []float32, pos float64) float32 {
	n := len(buf)
	if n == 0 {
		return 0
	}
	base := math.Floor(pos)
	frac := pos - base
	i := int(base)

	a := float64(buf[WrapIndex(i-1, n)])
	b := float64(buf[WrapIndex(i, n)])
	c := float64(buf[WrapIndex(i+1, n)])
	d := float64(buf[WrapIndex(i+2, n)])

	return float32(interp.Hermite4(frac, a, b, c, d))
}
