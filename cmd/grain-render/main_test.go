package main

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/dietcv/GrainDelay/analysis"
	"github.com/dietcv/GrainDelay/grain"
	"github.com/dietcv/GrainDelay/internal/audiofile"
)

func newEngine(t *testing.T, p *grain.Params) *grain.GrainDelay {
	t.Helper()
	g, err := grain.New(8000, p.Voices, p.MaxDelaySeconds)
	if err != nil {
		t.Fatalf("grain.New: %v", err)
	}
	return g
}

func testParams() *grain.Params {
	p := grain.NewDefaultParams()
	p.Voices = 8
	p.MaxDelaySeconds = 1
	p.DelayTime = 0.05
	return p
}

func impulse(n int) []float32 {
	x := make([]float32, n)
	x[0] = 1
	return x
}

func TestRenderDelayAppendsTail(t *testing.T) {
	p := testParams()
	out := renderDelay(newEngine(t, p), p, impulse(1000), renderOptions{
		blockSize:   64,
		tailFrames:  500,
		decayDBFS:   math.Inf(1),
		freezeAfter: -1,
	})
	if len(out) != 1500 {
		t.Fatalf("rendered frames: got=%d want=1500", len(out))
	}
}

func TestRenderDelayBlockSizeDoesNotChangeOutput(t *testing.T) {
	p := testParams()
	p.TriggerRateEnd = 90
	opt := renderOptions{tailFrames: 700, decayDBFS: math.Inf(1), freezeAfter: -1}

	opt.blockSize = 64
	a := renderDelay(newEngine(t, p), p, impulse(900), opt)
	opt.blockSize = 1
	b := renderDelay(newEngine(t, p), p, impulse(900), opt)
	opt.blockSize = 1600
	c := renderDelay(newEngine(t, p), p, impulse(900), opt)

	// the sweep is interpolated per sample, so only rounding may differ
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-4 || math.Abs(float64(a[i]-c[i])) > 1e-4 {
			t.Fatalf("sample %d: block64=%f block1=%f block1600=%f", i, a[i], b[i], c[i])
		}
	}
}

func TestRenderDelayAutoStopsTail(t *testing.T) {
	p := testParams()
	p.Feedback = 0
	out := renderDelay(newEngine(t, p), p, impulse(800), renderOptions{
		blockSize:       64,
		tailFrames:      80000,
		decayDBFS:       -90,
		decayHoldBlocks: 4,
		freezeAfter:     -1,
	})
	if len(out) >= 80800 {
		t.Fatalf("expected auto-stop before the end of the tail, got %d frames", len(out))
	}
	if len(out) < 800 {
		t.Fatalf("auto-stop cut into the input: %d frames", len(out))
	}
	threshold := float64(analysis.DBToLin(-90))
	for start := len(out) - 4*64; start < len(out); start += 64 {
		if r := analysis.RMS32(out[start : start+64]); r >= threshold {
			t.Fatalf("block at %d above the -90 dBFS stop threshold: rms=%g", start, r)
		}
	}
}

func TestRenderDelayAutoStopsAfterHoldBlocks(t *testing.T) {
	p := testParams()
	p.Feedback = 0
	// the grains have finished reading the impulse long before the tail,
	// so the first four tail blocks (starting at 832) are all below -20 dBFS
	out := renderDelay(newEngine(t, p), p, impulse(800), renderOptions{
		blockSize:       64,
		tailFrames:      8000,
		decayDBFS:       -20,
		decayHoldBlocks: 4,
		freezeAfter:     -1,
	})
	if len(out) != 832+4*64 {
		t.Fatalf("rendered frames: got=%d want=%d", len(out), 832+4*64)
	}
}

func TestRenderDecodedWAVInput(t *testing.T) {
	const sr = 8000
	tone := make([]float32, sr)
	for i := range tone {
		tone[i] = 0.5 * float32(math.Sin(2*math.Pi*220*float64(i)/sr))
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := audiofile.WriteMonoWAV(path, tone, sr); err != nil {
		t.Fatalf("WriteMonoWAV: %v", err)
	}

	input, inRate, err := audiofile.ReadMono(path)
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if inRate != sr || len(input) != len(tone) {
		t.Fatalf("decoded %d frames at %d Hz, want %d at %d Hz", len(input), inRate, len(tone), sr)
	}
	want := analysis.RMS32(tone)
	if got := analysis.RMS32(input); math.Abs(got-want) > 0.02*want {
		t.Fatalf("decoded input rms: got=%f want=%f", got, want)
	}

	p := testParams()
	p.Mix = 1
	out := renderDelay(newEngine(t, p), p, input, renderOptions{
		blockSize:   64,
		decayDBFS:   math.Inf(1),
		freezeAfter: -1,
	})
	if got := analysis.RMS32(out[sr/2:]); got < 0.1*want {
		t.Fatalf("rendered wet signal too quiet: rms=%f input rms=%f", got, want)
	}
}

func TestRenderDelayFreezeKeepsSounding(t *testing.T) {
	p := testParams()
	p.Mix = 1
	p.Feedback = 0
	noise := make([]float32, 1600)
	for i := range noise {
		noise[i] = float32(math.Sin(float64(i) * 0.37))
	}
	out := renderDelay(newEngine(t, p), p, noise, renderOptions{
		blockSize:   64,
		tailFrames:  4000,
		decayDBFS:   math.Inf(1),
		freezeAfter: 1600,
	})
	late := out[len(out)-1000:]
	var sum float64
	for _, v := range late {
		sum += float64(v * v)
	}
	if math.Sqrt(sum/float64(len(late))) < 1e-3 {
		t.Fatalf("expected frozen buffer to keep producing grains in the tail")
	}
}
