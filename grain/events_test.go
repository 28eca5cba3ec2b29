package grain

import (
	"math"
	"testing"
)

// 750 Hz at 48 kHz gives an exactly representable slope of 1/64.
const (
	exactSampleRate  = 48000
	exactTriggerRate = 750
	exactPeriod      = 64
)

func triggeredSlot(e *EventSystem) int {
	for i := range e.voices {
		if e.voices[i].JustTriggered {
			return i
		}
	}
	return -1
}

func TestEventSystemTriggerTimeline(t *testing.T) {
	e := NewEventSystem(4)
	var triggers []int
	var slots []int
	for n := 0; n <= 3*exactPeriod; n++ {
		e.Process(exactTriggerRate, false, 1, exactSampleRate)
		if s := triggeredSlot(e); s >= 0 {
			triggers = append(triggers, n)
			slots = append(slots, s)
		}
	}
	wantTriggers := []int{1, 64, 128, 192}
	wantSlots := []int{0, 1, 0, 1}
	if len(triggers) != len(wantTriggers) {
		t.Fatalf("trigger samples: got=%v want=%v", triggers, wantTriggers)
	}
	for i := range wantTriggers {
		if triggers[i] != wantTriggers[i] || slots[i] != wantSlots[i] {
			t.Fatalf("trigger %d: got sample=%d slot=%d want sample=%d slot=%d",
				i, triggers[i], slots[i], wantTriggers[i], wantSlots[i])
		}
	}
}

func TestEventSystemFirstGrainBackProjection(t *testing.T) {
	e := NewEventSystem(2)
	e.Process(exactTriggerRate, false, 2, exactSampleRate)
	out := e.Process(exactTriggerRate, false, 2, exactSampleRate)

	v := e.Voice(0)
	if !v.Active || !v.JustTriggered {
		t.Fatalf("expected slot 0 to be triggered on the second sample")
	}
	slope := 1.0 / exactPeriod
	if v.TriggerOffset != 1 {
		t.Fatalf("trigger offset: got=%f want=1", v.TriggerOffset)
	}
	if v.EnvelopeSlope != slope/2 {
		t.Fatalf("envelope slope: got=%g want=%g", v.EnvelopeSlope, slope/2)
	}
	if out[0] != slope/2 {
		t.Fatalf("first envelope output: got=%g want=%g", out[0], slope/2)
	}
}

func TestEventSystemSubSampleOffset(t *testing.T) {
	// slope 0.3: the ramp reaches 1.2 before wrapping to 0.2
	e := NewEventSystem(4)
	for n := 0; n < 5; n++ {
		e.Process(3, false, 1, 10)
	}
	s := triggeredSlot(e)
	if s != 1 {
		t.Fatalf("expected wrap trigger on slot 1 at sample 4, got slot %d", s)
	}
	v := e.Voice(s)
	if math.Abs(v.TriggerOffset-2.0/3.0) > 1e-9 {
		t.Fatalf("trigger offset: got=%.12f want=%.12f", v.TriggerOffset, 2.0/3.0)
	}
	if math.Abs(v.EnvelopePhase-0.2) > 1e-9 {
		t.Fatalf("envelope phase: got=%.12f want=0.2", v.EnvelopePhase)
	}
	if e.Voice(0).Active {
		t.Fatalf("expected the first grain to finish on the wrap sample")
	}
}

func TestEventSystemOverlapOneKeepsSingleVoice(t *testing.T) {
	e := NewEventSystem(DefaultVoices)
	for n := 0; n < 20000; n++ {
		e.Process(exactTriggerRate, false, 1, exactSampleRate)
		got := e.ActiveVoices()
		want := 1
		if n == 0 {
			want = 0
		}
		if got != want {
			t.Fatalf("sample %d: active voices got=%d want=%d", n, got, want)
		}
	}
}

func TestEventSystemOneTriggerPerWrap(t *testing.T) {
	tests := []struct {
		name string
		rate float32
		sr   float32
	}{
		{"slow", 1, 100},
		{"odd", 0.123, 1},
		{"fast", 3, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEventSystem(DefaultVoices)
			wraps, triggers := 0, 0
			for n := 0; n < 5000; n++ {
				if e.Phase() >= 1 {
					wraps++
				}
				e.Process(tc.rate, false, 0.5, tc.sr)
				if triggeredSlot(e) >= 0 {
					triggers++
				}
			}
			// the ramp leaving zero on sample 1 also reads as a wrap
			if triggers != wraps+1 {
				t.Fatalf("triggers=%d wraps=%d", triggers, wraps)
			}
		})
	}
}

func TestEventSystemRateLatchesAtWrap(t *testing.T) {
	e := NewEventSystem(4)
	for n := 0; n < 10; n++ {
		e.Process(exactTriggerRate, false, 1, exactSampleRate)
	}
	for n := 10; n < exactPeriod; n++ {
		e.Process(2*exactTriggerRate, false, 1, exactSampleRate)
		if e.Slope() != 1.0/exactPeriod {
			t.Fatalf("sample %d: slope changed mid-cycle to %g", n, e.Slope())
		}
	}
	e.Process(2*exactTriggerRate, false, 1, exactSampleRate)
	if e.Slope() != 2.0/exactPeriod {
		t.Fatalf("expected new slope after wrap, got %g", e.Slope())
	}
	if triggeredSlot(e) < 0 {
		t.Fatalf("expected a trigger on the wrap sample")
	}

	next := -1
	for n := exactPeriod + 1; n < 2*exactPeriod; n++ {
		e.Process(2*exactTriggerRate, false, 1, exactSampleRate)
		if triggeredSlot(e) >= 0 {
			next = n
			break
		}
	}
	if next != exactPeriod+exactPeriod/2 {
		t.Fatalf("expected next trigger at %d, got %d", exactPeriod+exactPeriod/2, next)
	}
}

func TestEventSystemDropsGrainWhenPoolIsFull(t *testing.T) {
	e := NewEventSystem(2)
	for n := 0; n < 128; n++ {
		e.Process(exactTriggerRate, false, 2, exactSampleRate)
	}
	if e.ActiveVoices() != 2 {
		t.Fatalf("expected both voices busy before sample 128, got %d", e.ActiveVoices())
	}
	before := e.Voice(1)

	e.Process(exactTriggerRate, false, 2, exactSampleRate)
	if s := triggeredSlot(e); s >= 0 {
		t.Fatalf("expected the trigger at sample 128 to be dropped, slot %d taken", s)
	}
	if e.ActiveVoices() != 1 {
		t.Fatalf("expected slot 0 to finish, active=%d", e.ActiveVoices())
	}
	after := e.Voice(1)
	if after.EnvelopeSlope != before.EnvelopeSlope || after.EnvelopePhase != before.EnvelopePhase+before.EnvelopeSlope {
		t.Fatalf("running voice disturbed by dropped grain: before=%+v after=%+v", before, after)
	}

	for n := 129; n < 192; n++ {
		e.Process(exactTriggerRate, false, 2, exactSampleRate)
	}
	e.Process(exactTriggerRate, false, 2, exactSampleRate)
	if s := triggeredSlot(e); s != 0 {
		t.Fatalf("expected slot 0 to be reused at sample 192, got %d", s)
	}
}

func TestEventSystemNeverExceedsPool(t *testing.T) {
	const voices = 4
	e := NewEventSystem(voices)
	for n := 0; n < 50000; n++ {
		rate := float32(200 + 180*math.Sin(float64(n)*0.001))
		overlap := float32(0.5 + 7*math.Abs(math.Sin(float64(n)*0.0003)))
		e.Process(rate, false, overlap, exactSampleRate)
		if got := e.ActiveVoices(); got > voices {
			t.Fatalf("sample %d: %d active voices exceeds pool of %d", n, got, voices)
		}
	}
}

func TestEventSystemResetClearsEverything(t *testing.T) {
	e := NewEventSystem(4)
	for n := 0; n < 100; n++ {
		e.Process(exactTriggerRate, false, 3, exactSampleRate)
	}
	if e.ActiveVoices() == 0 {
		t.Fatalf("expected active voices before reset")
	}

	out := e.Process(exactTriggerRate, true, 3, exactSampleRate)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("voice %d output %f on reset sample", i, v)
		}
	}
	if e.Phase() != 0 || e.Slope() != 0 || e.wrapNext {
		t.Fatalf("ramp not cleared: phase=%f slope=%f wrapNext=%v", e.Phase(), e.Slope(), e.wrapNext)
	}
	for i := 0; i < e.NumVoices(); i++ {
		if e.Voice(i) != (VoiceSlot{}) {
			t.Fatalf("voice %d not cleared: %+v", i, e.Voice(i))
		}
	}

	// behaves like a fresh system afterwards
	fresh := NewEventSystem(4)
	for n := 0; n < 200; n++ {
		a := e.Process(exactTriggerRate, false, 3, exactSampleRate)
		b := fresh.Process(exactTriggerRate, false, 3, exactSampleRate)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("sample %d voice %d: reset=%f fresh=%f", n, i, a[i], b[i])
			}
		}
	}
}

func TestEventSystemZeroRateNeverTriggers(t *testing.T) {
	e := NewEventSystem(4)
	for n := 0; n < 1000; n++ {
		e.Process(0, false, 1, exactSampleRate)
		if e.ActiveVoices() != 0 {
			t.Fatalf("sample %d: zero rate started a grain", n)
		}
	}
}

func TestEventSystemProcessDoesNotAllocate(t *testing.T) {
	e := NewEventSystem(DefaultVoices)
	allocs := testing.AllocsPerRun(1000, func() {
		e.Process(exactTriggerRate, false, 4, exactSampleRate)
	})
	if allocs != 0 {
		t.Fatalf("expected zero allocations per sample, got %f", allocs)
	}
}
