// Package analysis provides frequency and chaos diagnostics over recorded
// trajectories.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"
)

// Spectrum is the single-sided amplitude spectrum of a uniformly sampled
// signal.
type Spectrum struct {
	Freqs []float64
	Mags  []float64
}

// NewSpectrum computes the spectrum of samples taken every dt seconds. A
// Hann window suppresses leakage from the finite record. At least four
// samples are required.
func NewSpectrum(samples []float64, dt float64) (*Spectrum, error) {
	n := len(samples)
	if n < 4 {
		return nil, errors.Errorf("need at least 4 samples, got %d", n)
	}
	if dt <= 0 {
		return nil, errors.Errorf("sample interval must be positive, got %g", dt)
	}

	// remove the mean so the DC bin does not swamp the physics
	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, s := range samples {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (s - mean) * w
	}

	spec := fft.FFTReal(windowed)
	half := n / 2
	out := &Spectrum{
		Freqs: make([]float64, half),
		Mags:  make([]float64, half),
	}
	for i := 0; i < half; i++ {
		out.Freqs[i] = float64(i) / (float64(n) * dt)
		out.Mags[i] = cmplx.Abs(spec[i]) / float64(n)
	}
	return out, nil
}

// Dominant returns the frequency of the strongest non-DC bin.
func (s *Spectrum) Dominant() float64 {
	best := 1
	for i := 2; i < len(s.Mags); i++ {
		if s.Mags[i] > s.Mags[best] {
			best = i
		}
	}
	if best >= len(s.Freqs) {
		return 0
	}
	return s.Freqs[best]
}

// Peak returns the strongest non-DC bin's frequency and magnitude.
func (s *Spectrum) Peak() (freq, mag float64) {
	f := s.Dominant()
	for i, fr := range s.Freqs {
		if fr == f {
			return f, s.Mags[i]
		}
	}
	return f, 0
}
