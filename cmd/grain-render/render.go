package main

import (
	"math"

	"github.com/dietcv/GrainDelay/analysis"
	"github.com/dietcv/GrainDelay/grain"
)

type renderOptions struct {
	blockSize  int
	tailFrames int
	// decayDBFS stops the tail once decayHoldBlocks consecutive blocks fall
	// below it. +Inf disables auto-stop.
	decayDBFS       float64
	decayHoldBlocks int
	// freezeAfter is the frame at which the buffer freezes, < 0 never.
	freezeAfter int
}

// renderDelay runs input plus tailFrames of silence through g in blocks of
// opt.blockSize and returns the rendered output.
func renderDelay(g *grain.GrainDelay, p *grain.Params, input []float32, opt renderOptions) []float32 {
	blockSize := max(opt.blockSize, 1)
	total := len(input) + max(opt.tailFrames, 0)
	autoStop := !math.IsInf(opt.decayDBFS, 1)
	var threshold float64
	if autoStop {
		threshold = float64(analysis.DBToLin(float32(opt.decayDBFS)))
	}
	hold := max(opt.decayHoldBlocks, 1)

	in := grain.Inputs{
		Audio:       make([]float32, blockSize),
		TriggerRate: make([]float32, blockSize),
		Overlap:     make([]float32, blockSize),
		DelayTime:   make([]float32, blockSize),
		GrainRate:   make([]float32, blockSize),
	}
	ctl := p.Controls()
	out := make([]float32, 0, total)
	block := make([]float32, blockSize)

	span := float32(max(total-1, 1))
	belowCount := 0
	for start := 0; start < total; start += blockSize {
		n := min(blockSize, total-start)

		audio := in.Audio[:n]
		for i := range audio {
			if j := start + i; j < len(input) {
				audio[i] = input[j]
			} else {
				audio[i] = 0
			}
		}
		p.Fill(in, n, float32(start)/span, float32(start+n-1)/span)

		if opt.freezeAfter >= 0 && start >= opt.freezeAfter {
			ctl.Freeze = 1
		}

		blockIn := grain.Inputs{
			Audio:       audio,
			TriggerRate: in.TriggerRate[:n],
			Overlap:     in.Overlap[:n],
			DelayTime:   in.DelayTime[:n],
			GrainRate:   in.GrainRate[:n],
		}
		g.Process(block[:n], blockIn, ctl)
		out = append(out, block[:n]...)

		if autoStop && start >= len(input) {
			if analysis.RMS32(block[:n]) < threshold {
				belowCount++
				if belowCount >= hold {
					break
				}
			} else {
				belowCount = 0
			}
		}
	}
	return out
}
