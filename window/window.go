// Package window computes analysis windows and applies them to frames,
// including the zero-padding and zero-phase rotation steps spectral
// analysis expects.
package window

import (
	"fmt"
	"math"

	"github.com/genia/musher/errs"
)

// Type selects a window shape.
type Type int

const (
	Hann Type = iota
	Hamming
	BlackmanHarris62dB
	BlackmanHarris92dB
)

// Coefficients returns the size-length window coefficients for t.
func Coefficients(t Type, size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window: size must be positive: %w", errs.InvalidArgument)
	}
	out := make([]float64, size)
	switch t {
	case Hann:
		for i := range out {
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size-1))
		}
	case Hamming:
		for i := range out {
			out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(size-1))
		}
	case BlackmanHarris62dB:
		blackmanHarris(out, 0.44959, 0.49364, 0.05677, 0)
	case BlackmanHarris92dB:
		blackmanHarris(out, 0.35875, 0.48829, 0.14128, 0.01168)
	default:
		return nil, fmt.Errorf("window: unknown window type %d: %w", t, errs.InvalidArgument)
	}
	return out, nil
}

// blackmanHarris fills out with a 4-term Blackman-Harris window using the
// given coefficients (a0 - a1*cos + a2*cos2 - a3*cos3).
func blackmanHarris(out []float64, a0, a1, a2, a3 float64) {
	n := len(out)
	for i := range out {
		phase := 2 * math.Pi * float64(i) / float64(n-1)
		out[i] = a0 - a1*math.Cos(phase) + a2*math.Cos(2*phase) - a3*math.Cos(3*phase)
	}
}

// Options configures Apply.
type Options struct {
	Type Type

	// ZeroPaddingSize, when positive, is the number of zero samples
	// appended after the windowed frame (in non-zero-phase mode) or
	// inserted between its two halves (in zero-phase mode).
	ZeroPaddingSize int

	// ZeroPhase, when set, arranges the output so the windowed frame's
	// second half comes first, the zero padding in the middle, and the
	// first half last — placing the window's peak at index 0, as a
	// real-valued FFT expects.
	ZeroPhase bool

	// Normalize scales the window coefficients so they sum to 2.0 before
	// they are applied, so frames windowed at different lengths come out
	// at comparable magnitudes.
	Normalize bool
}

// Apply windows frame according to opts and returns a new slice; frame is
// never modified in place.
func Apply(frame []float64, opts Options) ([]float64, error) {
	size := len(frame)
	coeffs, err := Coefficients(opts.Type, size)
	if err != nil {
		return nil, err
	}
	if opts.Normalize {
		normalizeSum(coeffs, 2.0)
	}

	windowed := make([]float64, size)
	for i, v := range frame {
		windowed[i] = v * coeffs[i]
	}

	out := make([]float64, size+opts.ZeroPaddingSize)
	if !opts.ZeroPhase {
		copy(out, windowed)
		return out, nil
	}

	half1 := size / 2
	half2 := size - half1
	copy(out[:half2], windowed[half1:])
	copy(out[half2+opts.ZeroPaddingSize:], windowed[:half1])
	return out, nil
}

// normalizeSum scales w in place so its elements sum to target.
func normalizeSum(w []float64, target float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		return
	}
	scale := target / sum
	for i := range w {
		w[i] *= scale
	}
}
