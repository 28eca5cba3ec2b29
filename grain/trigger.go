package grain

import "math"

// WrapTrigger turns a wrapping ramp into single-sample trigger pulses.
//
// A wrap is detected when the relative jump between consecutive phases,
// |(cur-prev)/(cur+prev)|, exceeds 0.5. Only the rising edge of that
// condition fires, so a wrap seen across several samples triggers once.
type WrapTrigger struct {
	lastPhase float64
	lastWrap  bool
}

// Process consumes the ramp value of the current sample and reports whether
// a trigger fires on it.
func (w *WrapTrigger) Process(phase float64) bool {
	delta := phase - w.lastPhase
	sum := phase + w.lastPhase
	wrap := sum != 0 && math.Abs(delta/sum) > 0.5

	trigger := wrap && !w.lastWrap

	w.lastPhase = phase
	w.lastWrap = wrap
	return trigger
}

// Reset restores the initial state (phase 0, no wrap).
func (w *WrapTrigger) Reset() {
	w.lastPhase = 0
	w.lastWrap = false
}
