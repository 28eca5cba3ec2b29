package analysis

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// RMS32 is RMS for float32 render buffers.
func RMS32(x []float32) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest absolute sample value of x.
func Peak(x []float32) float32 {
	var p float32
	for _, v := range x {
		if v < 0 {
			v = -v
		}
		if v > p {
			p = v
		}
	}
	return p
}

// LinToDB converts a linear amplitude to dB, floored at -240 dB.
func LinToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

// DBToLin converts dB to a linear amplitude.
func DBToLin(db float32) float32 {
	const ln10over20 = 0.11512925464970229
	return approx.FastExp(db * ln10over20)
}
