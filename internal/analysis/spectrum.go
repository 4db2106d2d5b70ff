package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled
// signal. Freqs are in Hz.
type Spectrum struct {
	Freqs      []float64
	Amplitudes []float64
}

// NewSpectrum transforms xs sampled every dt seconds. The mean is removed
// first so the DC bin holds no energy.
func NewSpectrum(xs []float64, dt float64) (*Spectrum, error) {
	n := len(xs)
	if n < 2 {
		return nil, fmt.Errorf("spectrum needs at least 2 samples, got %d", n)
	}
	if dt <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %g", dt)
	}

	mean := 0.0
	for _, v := range xs {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range xs {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	half := n/2 + 1
	s := &Spectrum{Freqs: make([]float64, half), Amplitudes: make([]float64, half)}
	for k := 0; k < half; k++ {
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Amplitudes[k] = 2 * cmplx.Abs(bins[k]) / float64(n)
	}
	return s, nil
}

// Dominant returns the frequency and amplitude of the largest non-DC bin.
func (s *Spectrum) Dominant() (float64, float64) {
	best := 0
	for k := 1; k < len(s.Amplitudes); k++ {
		if best == 0 || s.Amplitudes[k] > s.Amplitudes[best] {
			best = k
		}
	}
	if best == 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Amplitudes[best]
}
