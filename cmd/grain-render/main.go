package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/dietcv/GrainDelay/analysis"
	"github.com/dietcv/GrainDelay/grain"
	"github.com/dietcv/GrainDelay/internal/audiofile"
	"github.com/dietcv/GrainDelay/internal/hostcfg"
)

func main() {
	params := hostcfg.Register(flag.CommandLine)
	input := flag.String("input", "", "Input audio file (wav, mp3 or ogg)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	blockSize := flag.Int("block", 64, "Host block size in frames")
	tail := flag.Float64("tail", 2.0, "Seconds of silence rendered after the input")
	decayDBFS := flag.Float64("decay-dbfs", math.Inf(1), "Stop the tail when block RMS falls below this dBFS (e.g. -90). Disabled by default")
	decayHoldBlocks := flag.Int("decay-hold-blocks", 6, "Consecutive below-threshold blocks required to stop the tail")
	freezeAfter := flag.Float64("freeze-after", -1, "Freeze the delay buffer after this many seconds (negative = never)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintf(os.Stderr, "Error: -input is required\n")
		os.Exit(1)
	}
	if *sampleRate <= 0 || *blockSize < 1 {
		fmt.Fprintf(os.Stderr, "Error: -sample-rate and -block must be positive\n")
		os.Exit(1)
	}

	p, err := params.Params(flag.CommandLine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading parameters: %v\n", err)
		os.Exit(1)
	}

	audio, inRate, err := audiofile.ReadMono(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
	audio, err = audiofile.Resample(audio, inRate, *sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resampling %d Hz -> %d Hz: %v\n", inRate, *sampleRate, err)
		os.Exit(1)
	}

	g, err := grain.NewFromParams(*sampleRate, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating grain delay: %v\n", err)
		os.Exit(1)
	}

	opt := renderOptions{
		blockSize:       *blockSize,
		tailFrames:      int(math.Max(0, *tail) * float64(*sampleRate)),
		decayDBFS:       *decayDBFS,
		decayHoldBlocks: *decayHoldBlocks,
		freezeAfter:     -1,
	}
	if *freezeAfter >= 0 {
		opt.freezeAfter = int(*freezeAfter * float64(*sampleRate))
	}

	fmt.Printf("Rendering %s (%d frames at %d Hz) through %d voices, trigger %.2f Hz, overlap %.2f, delay %.3fs, rate %.3f...\n",
		*input, len(audio), *sampleRate, g.NumVoices(), p.TriggerRate, p.Overlap, p.DelayTime, p.GrainRate)
	if p.TriggerRateEnd > 0 {
		fmt.Printf("Sweeping trigger rate %.2f Hz -> %.2f Hz\n", p.TriggerRate, p.TriggerRateEnd)
	}

	out := renderDelay(g, p, audio, opt)
	if len(out) < len(audio)+opt.tailFrames {
		fmt.Printf("Auto-stop at %d frames (%.3fs), threshold %.1f dBFS\n", len(out), float64(len(out))/float64(*sampleRate), *decayDBFS)
	}

	if err := audiofile.WriteMonoWAV(*output, out, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	peak := analysis.Peak(out)
	fmt.Printf("Successfully wrote %s (%d frames, peak %.1f dBFS, rms %.1f dBFS)\n",
		*output, len(out), analysis.LinToDB(float64(peak)), analysis.LinToDB(analysis.RMS32(out)))
}
