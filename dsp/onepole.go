package dsp

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// OnePoleNormalized is a one-pole lowpass driven directly by its feedback
// coefficient in [0,1] (0 = pass-through, 1 = hold).
type OnePoleNormalized struct {
	state float32
}

// ProcessLowpass filters one sample: y = x*(1-b) + y[n-1]*b.
func (f *OnePoleNormalized) ProcessLowpass(input float32, coeff float32) float32 {
	coeff = Clip(coeff, 0, 1)
	y := input*(1-coeff) + f.state*coeff
	f.state = float32(dspcore.FlushDenormals(float64(y)))
	return f.state
}

// ProcessHighpass returns input minus its lowpassed value.
func (f *OnePoleNormalized) ProcessHighpass(input float32, coeff float32) float32 {
	return input - f.ProcessLowpass(input, coeff)
}

// State returns the previous output.
func (f *OnePoleNormalized) State() float32 { return f.state }

// Reset clears the filter state.
func (f *OnePoleNormalized) Reset() {
	f.state = 0
}

// OnePole is a one-pole lowpass parameterised by cutoff frequency.
// The coefficient b = exp(-2π·|cutoff/sampleRate|) is recomputed only when
// cutoff or sample rate change.
type OnePole struct {
	state float32

	coeff      float32
	cutoffHz   float32
	sampleRate float32
	ready      bool
}

func (f *OnePole) coefficient(cutoffHz, sampleRate float32) float32 {
	if f.ready && cutoffHz == f.cutoffHz && sampleRate == f.sampleRate {
		return f.coeff
	}
	var slope float32
	if sampleRate > 0 {
		slope = cutoffHz / sampleRate
	}
	slope = float32(math.Abs(float64(Clip(slope, -0.5, 0.5))))
	f.coeff = float32(math.Exp(-TwoPi * float64(slope)))
	f.cutoffHz = cutoffHz
	f.sampleRate = sampleRate
	f.ready = true
	return f.coeff
}

// ProcessLowpass filters one sample.
func (f *OnePole) ProcessLowpass(input float32, cutoffHz float32, sampleRate float32) float32 {
	b := f.coefficient(cutoffHz, sampleRate)
	y := input*(1-b) + f.state*b
	f.state = float32(dspcore.FlushDenormals(float64(y)))
	return f.state
}

// ProcessHighpass returns input minus its lowpassed value.
func (f *OnePole) ProcessHighpass(input float32, cutoffHz float32, sampleRate float32) float32 {
	return input - f.ProcessLowpass(input, cutoffHz, sampleRate)
}

// State returns the previous lowpass output.
func (f *OnePole) State() float32 { return f.state }

// Reset clears the filter state. The cached coefficient is kept.
func (f *OnePole) Reset() {
	f.state = 0
}
