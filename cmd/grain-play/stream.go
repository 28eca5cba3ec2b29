package main

import (
	"encoding/binary"
	"math"

	"github.com/dietcv/GrainDelay/grain"
)

// loopStream renders the grain delay over a looped input as raw float32
// little-endian mono PCM. Read never allocates once the stream is built.
type loopStream struct {
	g      *grain.GrainDelay
	p      *grain.Params
	ctl    grain.Controls
	source []float32
	pos    int

	in    grain.Inputs
	block []float32
}

func newLoopStream(g *grain.GrainDelay, p *grain.Params, source []float32, blockSize int) *loopStream {
	blockSize = max(blockSize, 1)
	return &loopStream{
		g:      g,
		p:      p,
		ctl:    p.Controls(),
		source: source,
		in: grain.Inputs{
			Audio:       make([]float32, blockSize),
			TriggerRate: make([]float32, blockSize),
			Overlap:     make([]float32, blockSize),
			DelayTime:   make([]float32, blockSize),
			GrainRate:   make([]float32, blockSize),
		},
		block: make([]float32, blockSize),
	}
}

// Read implements io.Reader for the oto player.
func (s *loopStream) Read(b []byte) (int, error) {
	frames := len(b) / 4
	done := 0
	for done < frames {
		n := min(len(s.block), frames-done)
		s.renderBlock(n)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(b[(done+i)*4:], math.Float32bits(s.block[i]))
		}
		done += n
	}
	return frames * 4, nil
}

func (s *loopStream) renderBlock(n int) {
	t0 := s.progress()
	for i := 0; i < n; i++ {
		if len(s.source) == 0 {
			s.in.Audio[i] = 0
			continue
		}
		s.in.Audio[i] = s.source[s.pos]
		s.pos++
		if s.pos >= len(s.source) {
			s.pos = 0
		}
	}
	t1 := s.progress()
	if t1 < t0 {
		t1 = 1
	}
	s.p.Fill(s.in, n, t0, t1)
	in := grain.Inputs{
		Audio:       s.in.Audio[:n],
		TriggerRate: s.in.TriggerRate[:n],
		Overlap:     s.in.Overlap[:n],
		DelayTime:   s.in.DelayTime[:n],
		GrainRate:   s.in.GrainRate[:n],
	}
	s.g.Process(s.block[:n], in, s.ctl)
}

// progress is the position within the source loop in [0,1), which drives
// the trigger rate sweep.
func (s *loopStream) progress() float32 {
	if len(s.source) == 0 {
		return 0
	}
	return float32(s.pos) / float32(len(s.source))
}
