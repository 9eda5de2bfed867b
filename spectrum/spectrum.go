// Package spectrum computes magnitude spectra from windowed frames using a
// real-input FFT.
package spectrum

import (
	"fmt"
	"math/bits"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/genia/musher/errs"
)

// Magnitude returns the non-negative-frequency magnitude spectrum of
// frame. len(frame) must be a power of two; the result has
// len(frame)/2+1 bins, bin 0 being DC.
func Magnitude(frame []float64) ([]float64, error) {
	n := len(frame)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("spectrum: frame length %d is not a power of two: %w", n, errs.InvalidArgument)
	}

	plan, err := algofft.NewPlanReal64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %v: %w", err, errs.InvalidArgument)
	}

	spec := make([]complex128, n/2+1)
	plan.Forward(spec, frame)

	mag := make([]float64, len(spec))
	for i, c := range spec {
		mag[i] = cmplx.Abs(c)
	}
	return mag, nil
}

// BinFrequency returns the center frequency in Hz of bin within an
// fftSize-point spectrum sampled at sampleRate.
func BinFrequency(bin, fftSize, sampleRate int) float64 {
	return float64(bin) * float64(sampleRate) / float64(fftSize)
}

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
