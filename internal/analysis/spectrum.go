package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/sandpend/internal/dynamo"
)

// minSpectrumSamples is the shortest signal worth transforming.
const minSpectrumSamples = 4

// Spectrum returns the one-sided power spectrum of samples taken every
// step seconds. The mean is removed first so the DC bin does not swamp
// the swing frequency.
func Spectrum(samples []float64, step float64) (freqs, power []float64, err error) {
	if len(samples) < minSpectrumSamples {
		return nil, nil, fmt.Errorf("spectrum needs at least %d samples, got %d: %w", minSpectrumSamples, len(samples), dynamo.ErrInvalidState)
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, nil, dynamo.NewDomainError("step", step, "must be positive and finite")
	}

	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	centred := make([]float64, len(samples))
	for i, s := range samples {
		centred[i] = s - mean
	}

	coeffs := fft.FFTReal(centred)
	n := len(samples)
	bins := n/2 + 1
	freqs = make([]float64, bins)
	power = make([]float64, bins)
	df := 1 / (float64(n) * step)
	for k := 0; k < bins; k++ {
		freqs[k] = float64(k) * df
		mag := cmplx.Abs(coeffs[k])
		power[k] = mag * mag / float64(n)
	}
	return freqs, power, nil
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// spectral peak, refined by parabolic interpolation across its neighbours.
// A signal with no variation reports 0.
func DominantFrequency(samples []float64, step float64) (float64, error) {
	freqs, power, err := Spectrum(samples, step)
	if err != nil {
		return 0, err
	}

	peak := 0
	for k := 1; k < len(power); k++ {
		if power[k] > power[peak] || peak == 0 {
			peak = k
		}
	}
	if power[peak] == 0 {
		return 0, nil
	}

	offset := 0.0
	if peak > 0 && peak < len(power)-1 {
		a, b, c := power[peak-1], power[peak], power[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			offset = 0.5 * (a - c) / denom
		}
	}
	df := freqs[1] - freqs[0]
	return freqs[peak] + offset*df, nil
}
