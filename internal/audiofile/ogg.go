package audiofile

import (
	"errors"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

func readOgg(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, 0, err
	}
	ch := dec.Channels()
	if ch < 1 {
		return nil, 0, errors.New("ogg stream has no channels")
	}

	var interleaved []float32
	chunk := make([]float32, 4096*ch)
	for {
		n, err := dec.Read(chunk)
		interleaved = append(interleaved, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			break
		}
	}
	return downmix(interleaved, ch), dec.SampleRate(), nil
}
