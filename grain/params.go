package grain

const (
	// DefaultVoices is the default size of the grain voice pool.
	DefaultVoices = 32
	// DefaultMaxDelaySeconds sizes the circular delay buffer.
	DefaultMaxDelaySeconds = 5.0

	MinOverlap   = 0.001
	MinGrainRate = 0.125
	MaxGrainRate = 4.0
	MaxFeedback  = 0.99

	// dcBlockHz is the cutoff of the input DC blocker.
	dcBlockHz = 3.0
	gateLevel = 0.5
)

// Params holds block-constant control values for hosts that do not modulate
// the audio-rate inputs.
type Params struct {
	TriggerRate float32 // Hz
	// TriggerRateEnd, when > 0, is the trigger rate reached at the end of a
	// linear sweep. Zero keeps TriggerRate constant.
	TriggerRateEnd float32
	Overlap        float32
	DelayTime      float32 // seconds
	GrainRate      float32 // playback ratio

	Mix      float32
	Feedback float32
	Damping  float32
	Freeze   bool

	Voices          int
	MaxDelaySeconds float32
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		TriggerRate:     20,
		TriggerRateEnd:  0,
		Overlap:         2,
		DelayTime:       0.25,
		GrainRate:       1,
		Mix:             0.5,
		Feedback:        0.3,
		Damping:         0.2,
		Freeze:          false,
		Voices:          DefaultVoices,
		MaxDelaySeconds: DefaultMaxDelaySeconds,
	}
}

// Controls returns the block-rate controls described by p.
func (p *Params) Controls() Controls {
	c := Controls{
		Mix:      p.Mix,
		Feedback: p.Feedback,
		Damping:  p.Damping,
	}
	if p.Freeze {
		c.Freeze = 1
	}
	return c
}

// TriggerRateAt returns the swept trigger rate at progress t in [0,1].
func (p *Params) TriggerRateAt(t float32) float32 {
	if p.TriggerRateEnd <= 0 {
		return p.TriggerRate
	}
	return p.TriggerRate + t*(p.TriggerRateEnd-p.TriggerRate)
}

// Fill writes constant audio-rate values into the first n entries of the
// control arrays of in. The trigger rate follows the sweep between
// progress t0 and t1.
func (p *Params) Fill(in Inputs, n int, t0, t1 float32) {
	for i := 0; i < n; i++ {
		t := t0
		if n > 1 {
			t = t0 + (t1-t0)*float32(i)/float32(n-1)
		}
		in.TriggerRate[i] = p.TriggerRateAt(t)
		in.Overlap[i] = p.Overlap
		in.DelayTime[i] = p.DelayTime
		in.GrainRate[i] = p.GrainRate
	}
}
