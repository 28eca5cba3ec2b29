package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/dietcv/GrainDelay/grain"
	"github.com/dietcv/GrainDelay/internal/audiofile"
	"github.com/dietcv/GrainDelay/internal/hostcfg"
)

func main() {
	params := hostcfg.Register(flag.CommandLine)
	input := flag.String("input", "", "Input audio file looped through the delay (wav, mp3 or ogg)")
	sampleRate := flag.Int("sample-rate", 48000, "Playback sample rate in Hz")
	blockSize := flag.Int("block", 64, "Engine block size in frames")
	bufferMs := flag.Int("buffer-ms", 40, "Output device buffer in milliseconds")
	duration := flag.Float64("duration", 0, "Stop after this many seconds (0 = until interrupted)")
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

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(*bufferMs) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	<-ready

	player := ctx.NewPlayer(newLoopStream(g, p, audio, *blockSize))
	defer player.Close()
	player.Play()

	fmt.Printf("Playing %s at %d Hz through %d voices (Ctrl+C to stop)...\n", *input, *sampleRate, g.NumVoices())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(time.Duration(*duration * float64(time.Second)))
	}
	select {
	case <-stop:
	case <-timeout:
	}
	fmt.Println("Stopped")
}
