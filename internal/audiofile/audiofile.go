// Package audiofile decodes input files for the grain delay hosts into mono
// float32 sample streams and writes rendered output as WAV.
package audiofile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ReadMono decodes a WAV, MP3 or Ogg Vorbis file, averages its channels and
// returns the samples together with the file's sample rate.
func ReadMono(path string) ([]float32, int, error) {
	var (
		data []float32
		sr   int
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		data, sr, err = readWAV(path)
	case ".mp3":
		data, sr, err = readMP3(path)
	case ".ogg", ".oga":
		data, sr, err = readOgg(path)
	default:
		return nil, 0, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if sr <= 0 {
		return nil, 0, fmt.Errorf("decode %s: invalid sample rate %d", path, sr)
	}
	return data, sr, nil
}

// downmix averages interleaved frames of ch channels into one channel.
func downmix(interleaved []float32, ch int) []float32 {
	if ch <= 1 {
		return interleaved
	}
	frames := len(interleaved) / ch
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < ch; c++ {
			sum += interleaved[i*ch+c]
		}
		out[i] = sum / float32(ch)
	}
	return out
}
