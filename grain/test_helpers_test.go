package grain

import (
	"math"
	"math/rand"
	"testing"
)

func newTestDelay(t *testing.T, sampleRate int, voices int, maxDelay float32) *GrainDelay {
	t.Helper()
	g, err := New(sampleRate, voices, maxDelay)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func constFrame(rate, overlap, delay, grainRate float32) Frame {
	return Frame{
		TriggerRate: rate,
		Overlap:     overlap,
		DelayTime:   delay,
		GrainRate:   grainRate,
	}
}

// newInputs allocates n-sample control arrays holding f, with audio left
// as provided.
func newInputs(audio []float32, f Frame) Inputs {
	n := len(audio)
	in := Inputs{
		Audio:       audio,
		TriggerRate: make([]float32, n),
		Overlap:     make([]float32, n),
		DelayTime:   make([]float32, n),
		GrainRate:   make([]float32, n),
	}
	for i := 0; i < n; i++ {
		in.TriggerRate[i] = f.TriggerRate
		in.Overlap[i] = f.Overlap
		in.DelayTime[i] = f.DelayTime
		in.GrainRate[i] = f.GrainRate
	}
	return in
}

func sine(n int, sampleRate int, freq float64, amp float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out
}

func noise(n int, seed int64, amp float32) []float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float32, n)
	for i := range out {
		out[i] = amp * float32(rng.Float64()*2-1)
	}
	return out
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func render(g *GrainDelay, audio []float32, f Frame, ctl Controls) []float32 {
	out := make([]float32, len(audio))
	for i, x := range audio {
		out[i] = g.ProcessSample(x, f, ctl)
	}
	return out
}
