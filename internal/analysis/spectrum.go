package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const minSamples = 4

var (
	ErrTooShort = errors.New("analysis: series too short")
	ErrNoPeriod = errors.New("analysis: no periodic component")
)

// PowerSpectrum returns the magnitude of the first len(data)/2 frequency
// bins. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod estimates the period of a series sampled every sampleDt.
// The mean is removed first so the constant bin never wins.
func DominantPeriod(series []float64, sampleDt float64) (float64, error) {
	n := len(series)
	if n < minSamples {
		return 0, ErrTooShort
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, ErrNoPeriod
	}

	return float64(n) * sampleDt / float64(best), nil
}
