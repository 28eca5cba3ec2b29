package analysis

import "math"

// CrossCorrelation searches lags in [-maxLag, maxLag] for the best match
// between ref and cand and returns that lag with its normalized correlation
// in [-1,1]. A positive lag means ref is delayed relative to cand.
// Silent or empty inputs give (0, 0).
func CrossCorrelation(ref []float64, cand []float64, maxLag int) (int, float64) {
	if len(ref) == 0 || len(cand) == 0 || maxLag < 0 {
		return 0, 0
	}
	bestLag, best := 0, 0.0
	for lag := -maxLag; lag <= maxLag; lag++ {
		a, b := overlapAtLag(ref, cand, lag)
		if r := normalizedDot(a, b); r > best {
			best = r
			bestLag = lag
		}
	}
	return bestLag, best
}

// EstimateLag returns only the lag of CrossCorrelation.
func EstimateLag(ref []float64, cand []float64, maxLag int) int {
	lag, _ := CrossCorrelation(ref, cand, maxLag)
	return lag
}

// overlapAtLag returns the equally long parts of a and b that line up when
// a is shifted back by lag samples.
func overlapAtLag(a []float64, b []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(a) {
			return nil, nil
		}
		a = a[lag:]
	} else {
		if -lag >= len(b) {
			return nil, nil
		}
		b = b[-lag:]
	}
	n := min(len(a), len(b))
	return a[:n], b[:n]
}

func normalizedDot(a []float64, b []float64) float64 {
	var ab, aa, bb float64
	for i := range a {
		ab += a[i] * b[i]
		aa += a[i] * a[i]
		bb += b[i] * b[i]
	}
	if aa <= 1e-20 || bb <= 1e-20 {
		return 0
	}
	return ab / math.Sqrt(aa*bb)
}
