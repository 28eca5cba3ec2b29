package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// MagnitudeSpectrum returns the Hann-windowed magnitude spectrum of the
// first fftSize samples of x. fftSize must be a power of two no larger
// than len(x).
func MagnitudeSpectrum(x []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 2: %d", fftSize)
	}
	if len(x) < fftSize {
		return nil, fmt.Errorf("need %d samples, have %d", fftSize, len(x))
	}
	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}

	buf := make([]float64, fftSize)
	for i := range buf {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
		buf[i] = x[i] * w
	}
	spec := make([]complex128, fftSize/2+1)
	plan.Forward(spec, buf)

	mag := make([]float64, len(spec))
	for k, c := range spec {
		mag[k] = cmplx.Abs(c)
	}
	return mag, nil
}

// PeakFrequency returns the frequency in Hz of the strongest spectral peak
// of x, ignoring DC. It analyses the largest power-of-two prefix of x and
// refines the peak bin by parabolic interpolation.
func PeakFrequency(x []float64, sampleRate int) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("sample rate must be > 0: %d", sampleRate)
	}
	fftSize := 1
	for fftSize*2 <= len(x) {
		fftSize *= 2
	}
	mag, err := MagnitudeSpectrum(x, fftSize)
	if err != nil {
		return 0, err
	}

	best := 1
	for k := 2; k < len(mag)-1; k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}
	bin := float64(best)
	if best > 0 && best < len(mag)-1 {
		a, b, c := mag[best-1], mag[best], mag[best+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return bin * float64(sampleRate) / float64(fftSize), nil
}
