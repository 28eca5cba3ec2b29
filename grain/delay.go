package grain

import (
	"fmt"
	"math"

	"github.com/dietcv/GrainDelay/dsp"
)

// Inputs carries the audio-rate arrays of one render call.
type Inputs struct {
	Audio       []float32
	TriggerRate []float32 // Hz
	Overlap     []float32
	DelayTime   []float32 // seconds
	GrainRate   []float32 // playback ratio
}

// Controls carries the block-rate controls of one render call.
// Freeze and Reset are gates that are on above 0.5.
type Controls struct {
	Mix      float32
	Feedback float32
	Damping  float32
	Freeze   float32
	Reset    float32
}

// Frame is the audio-rate control set of a single sample.
type Frame struct {
	TriggerRate float32
	Overlap     float32
	DelayTime   float32
	GrainRate   float32
}

type grainState struct {
	readPos float64 // normalized buffer position where the grain starts
	rate    float64
	phase   float64 // frames travelled since the trigger
}

// GrainDelay is a granular delay: the input is recorded into a circular
// buffer and windowed grains read it back at their own playback rate, fed
// back through a damping lowpass.
//
// All memory is allocated in New; Process and ProcessSample never allocate.
// A GrainDelay is not safe for concurrent use.
type GrainDelay struct {
	sampleRate float32
	sampleDur  float32
	maxDelay   float32

	buffer    []float32
	bufFrames float64
	writePos  int

	events *EventSystem
	grains []grainState

	damping   dsp.OnePoleNormalized
	dcBlocker dsp.OnePole
}

// New creates a grain delay for the given host sample rate, voice pool size
// and maximum delay time in seconds.
func New(sampleRate int, numVoices int, maxDelaySeconds float32) (*GrainDelay, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("grain delay sample rate must be > 0: %d", sampleRate)
	}
	if numVoices < 1 {
		return nil, fmt.Errorf("grain delay voice count must be >= 1: %d", numVoices)
	}
	md := float64(maxDelaySeconds)
	if math.IsNaN(md) || math.IsInf(md, 0) || md <= 0 {
		return nil, fmt.Errorf("grain delay max delay must be > 0: %f", maxDelaySeconds)
	}
	frames := int(math.Round(md * float64(sampleRate)))
	if frames < 4 {
		return nil, fmt.Errorf("grain delay buffer too short: %d frames (need >= 4)", frames)
	}

	return &GrainDelay{
		sampleRate: float32(sampleRate),
		sampleDur:  1 / float32(sampleRate),
		maxDelay:   maxDelaySeconds,
		buffer:     make([]float32, frames),
		bufFrames:  float64(frames),
		events:     NewEventSystem(numVoices),
		grains:     make([]grainState, numVoices),
	}, nil
}

// NewFromParams creates a grain delay sized by p.Voices and p.MaxDelaySeconds.
func NewFromParams(sampleRate int, p *Params) (*GrainDelay, error) {
	if p == nil {
		p = NewDefaultParams()
	}
	return New(sampleRate, p.Voices, p.MaxDelaySeconds)
}

// SampleRate returns the host sample rate in Hz.
func (g *GrainDelay) SampleRate() float32 { return g.sampleRate }

// NumVoices returns the size of the voice pool.
func (g *GrainDelay) NumVoices() int { return len(g.grains) }

// BufferFrames returns the delay buffer length in frames.
func (g *GrainDelay) BufferFrames() int { return len(g.buffer) }

// WriteHead returns the current write position in frames.
func (g *GrainDelay) WriteHead() int { return g.writePos }

// ActiveVoices returns the number of grains currently sounding.
func (g *GrainDelay) ActiveVoices() int { return g.events.ActiveVoices() }

// Events exposes the scheduler for inspection.
func (g *GrainDelay) Events() *EventSystem { return g.events }

// Process renders one block. It processes as many samples as the shortest
// of out and the input arrays and zeroes whatever is left of out.
func (g *GrainDelay) Process(out []float32, in Inputs, ctl Controls) {
	n := len(out)
	n = min(n, len(in.Audio), len(in.TriggerRate), len(in.Overlap), len(in.DelayTime), len(in.GrainRate))

	for i := 0; i < n; i++ {
		f := Frame{
			TriggerRate: in.TriggerRate[i],
			Overlap:     in.Overlap[i],
			DelayTime:   in.DelayTime[i],
			GrainRate:   in.GrainRate[i],
		}
		out[i] = g.ProcessSample(in.Audio[i], f, ctl)
	}
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}

// ProcessSample renders one output sample.
func (g *GrainDelay) ProcessSample(input float32, f Frame, ctl Controls) float32 {
	mix := dsp.Clip(ctl.Mix, 0, 1)
	feedback := dsp.Clip(ctl.Feedback, 0, MaxFeedback)
	damping := dsp.Clip(ctl.Damping, 0, 1)
	freeze := ctl.Freeze > gateLevel

	if ctl.Reset > gateLevel {
		// no grains sound on a reset sample, but the input is still recorded
		// from frame 0
		g.Reset()
		g.write(input, 0, feedback, damping, freeze)
		return dsp.Lerp(input, 0, mix)
	}

	triggerRate := dsp.Clip(f.TriggerRate, 0, g.sampleRate*0.5)
	overlap := dsp.Clip(f.Overlap, MinOverlap, float32(len(g.grains)))
	delayTime := dsp.Clip(f.DelayTime, g.sampleDur, g.maxDelay)
	grainRate := dsp.Clip(f.GrainRate, MinGrainRate, MaxGrainRate)

	envelopes := g.events.Process(triggerRate, false, overlap, g.sampleRate)

	var delayed float64
	for i := range g.grains {
		v := &g.events.voices[i]
		gr := &g.grains[i]

		if v.JustTriggered {
			writeNorm := float64(g.writePos) / g.bufFrames
			delayNorm := float64(delayTime) * float64(g.sampleRate) / g.bufFrames
			gr.readPos = dsp.Wrap01(writeNorm - delayNorm)
			gr.rate = float64(grainRate)
			gr.phase = gr.rate * v.TriggerOffset
		}
		if !v.Active {
			continue
		}

		gr.phase += gr.rate
		pos := gr.readPos*g.bufFrames + gr.phase
		s := float64(dsp.PeekCubic(g.buffer, pos))
		delayed += s * dsp.HanningWindow(envelopes[i])
	}

	wet := float32(delayed * overlapGain(overlap))
	g.write(input, wet, feedback, damping, freeze)

	return dsp.Lerp(input, wet, mix)
}

// write runs the feedback and input filters and records one frame unless
// frozen.
func (g *GrainDelay) write(input, wet, feedback, damping float32, freeze bool) {
	dampedFeedback := g.damping.ProcessLowpass(wet, damping)
	dcBlockedInput := g.dcBlocker.ProcessHighpass(input, dcBlockHz, g.sampleRate)

	if freeze {
		return
	}
	g.buffer[g.writePos] = dcBlockedInput + dampedFeedback*feedback
	g.writePos++
	if g.writePos >= len(g.buffer) {
		g.writePos = 0
	}
}

// overlapGain keeps loudness roughly constant as more grains overlap.
func overlapGain(overlap float32) float64 {
	return 1 / math.Sqrt(math.Max(1, float64(overlap)))
}

// Reset clears the scheduler, write head, filters and grain read state.
// Buffer contents are kept.
func (g *GrainDelay) Reset() {
	g.events.Reset()
	g.writePos = 0
	g.damping.Reset()
	g.dcBlocker.Reset()
	for i := range g.grains {
		g.grains[i] = grainState{}
	}
}
