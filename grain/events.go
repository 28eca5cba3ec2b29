package grain

// VoiceSlot is the scheduling state of one grain voice.
type VoiceSlot struct {
	Active        bool
	JustTriggered bool

	// EnvelopePhase is the window position in [0,1).
	EnvelopePhase float64
	EnvelopeSlope float64
	// TriggerOffset is the back-projected fraction of a sample at which the
	// master ramp wrapped, in units of samples.
	TriggerOffset float64
}

// EventSystem drives grain scheduling from a master ramp and allocates
// voices from a fixed pool.
//
// The ramp wrap is deferred by one sample and the slope is only re-latched
// at that wrap, so trigger-rate modulation never bends a running cycle.
// New grains take the first inactive slot in index order; when none is free
// the grain is dropped.
type EventSystem struct {
	trig WrapTrigger

	phase    float64
	slope    float64
	wrapNext bool

	voices []VoiceSlot
	out    []float64
}

// NewEventSystem allocates an event system with numVoices slots.
func NewEventSystem(numVoices int) *EventSystem {
	if numVoices < 1 {
		numVoices = 1
	}
	return &EventSystem{
		voices: make([]VoiceSlot, numVoices),
		out:    make([]float64, numVoices),
	}
}

// NumVoices returns the size of the voice pool.
func (e *EventSystem) NumVoices() int { return len(e.voices) }

// Voice returns a copy of slot i.
func (e *EventSystem) Voice(i int) VoiceSlot { return e.voices[i] }

// Phase returns the master ramp phase.
func (e *EventSystem) Phase() float64 { return e.phase }

// Slope returns the latched master ramp slope.
func (e *EventSystem) Slope() float64 { return e.slope }

// ActiveVoices counts the active slots.
func (e *EventSystem) ActiveVoices() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].Active {
			n++
		}
	}
	return n
}

// Process advances the scheduler by one sample and returns the envelope
// phase of every voice (0 for inactive voices). The returned slice is owned
// by the event system and overwritten on the next call.
//
// rate is the trigger rate in Hz, overlap scales grain length relative to
// the trigger period.
func (e *EventSystem) Process(rate float32, reset bool, overlap float32, sampleRate float32) []float64 {
	if reset {
		e.Reset()
		for i := range e.out {
			e.out[i] = 0
		}
		return e.out
	}

	for i := range e.voices {
		e.voices[i].JustTriggered = false
	}

	if e.slope == 0 {
		e.slope = float64(rate) / float64(sampleRate)
	}

	if e.wrapNext {
		e.phase -= 1
		e.slope = float64(rate) / float64(sampleRate)
		e.wrapNext = false
	}

	if e.trig.Process(e.phase) && e.slope != 0 {
		e.allocate(float64(overlap))
	}

	for i := range e.voices {
		v := &e.voices[i]
		if !v.Active {
			e.out[i] = 0
			continue
		}
		if !v.JustTriggered {
			v.EnvelopePhase += v.EnvelopeSlope
		}
		if v.EnvelopePhase >= 1 {
			v.Active = false
			e.out[i] = 0
			continue
		}
		e.out[i] = v.EnvelopePhase
	}

	e.phase += e.slope
	if e.phase >= 1 {
		e.wrapNext = true
	}

	return e.out
}

func (e *EventSystem) allocate(overlap float64) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.Active {
			continue
		}
		v.JustTriggered = true
		v.EnvelopeSlope = e.slope / overlap
		v.TriggerOffset = e.phase / e.slope
		v.EnvelopePhase = v.EnvelopeSlope * v.TriggerOffset
		v.Active = true
		return
	}
}

// Reset clears the ramp, the trigger detector and every voice slot.
func (e *EventSystem) Reset() {
	e.phase = 0
	e.slope = 0
	e.wrapNext = false
	e.trig.Reset()
	for i := range e.voices {
		e.voices[i] = VoiceSlot{}
	}
}
