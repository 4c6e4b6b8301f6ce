package derive

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

func sqrt(v float64) float64 { return math.Sqrt(v) }

// PowerSpectrum returns the magnitude of the first half of the FFT of
// the signal, zero-padded to the next power of two.
func PowerSpectrum(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}
	n := 1
	for n < len(signal) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, signal)

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency finds the strongest non-DC frequency in hertz for a
// signal sampled at interval dt.
func DominantFrequency(signal []float64, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	ps := PowerSpectrum(signal)
	if len(ps) < 2 {
		return 0
	}
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	// bin width is 1/(N*dt) with N the padded length
	n := 2 * len(ps)
	return float64(maxIdx) / (float64(n) * dt)
}
