package audiofile

import (
	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
)

// Resample converts in from fromRate to toRate. It returns in unchanged
// when the rates already match.
func Resample(in []float32, fromRate int, toRate int) ([]float32, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	x := make([]float64, len(in))
	for i, v := range in {
		x[i] = float64(v)
	}
	y := r.Process(x)
	out := make([]float32, len(y))
	for i, v := range y {
		out[i] = float32(v)
	}
	return out, nil
}
