// Package hpcp folds spectral peaks, with harmonic weighting, into a
// harmonic pitch-class profile (an N-bin chroma-like vector).
package hpcp

import (
	"fmt"
	"math"

	"github.com/genia/musher/errs"
	"github.com/genia/musher/peak"
)

// WeightType selects how a peak's energy spreads across nearby bins.
type WeightType int

const (
	WeightNone WeightType = iota
	WeightCosine
	WeightSquaredCosine
)

// Normalization selects the final scaling applied to the profile.
type Normalization int

const (
	NormalizeNone Normalization = iota
	NormalizeUnitMax
	NormalizeUnitSum
)

// Options configures Compute.
type Options struct {
	Size          int // multiple of 12
	ReferenceHz   float64
	Harmonics     int // number of extra harmonics beyond the fundamental
	BandPreset    bool
	BandSplitHz   float64
	MinHz         float64
	MaxHz         float64
	WeightType    WeightType
	WindowSize    float64 // semitones
	NonLinear     bool
	MaxShifted    bool
	Normalized    Normalization
}

// Compute builds a pitch-class profile from spectral peaks per opts.
func Compute(peaks []peak.SpectralPeak, opts Options) ([]float64, error) {
	if opts.Size <= 0 || opts.Size%12 != 0 {
		return nil, fmt.Errorf("hpcp: size %d is not a positive multiple of 12: %w", opts.Size, errs.InvalidArgument)
	}
	if opts.ReferenceHz <= 0 {
		return nil, fmt.Errorf("hpcp: reference_hz must be positive: %w", errs.InvalidArgument)
	}

	pcp := make([]float64, opts.Size)
	lowBand := make([]float64, opts.Size)
	highBand := make([]float64, opts.Size)
	haveLow, haveHigh := false, false

	for _, p := range peaks {
		if p.FrequencyHz < opts.MinHz || p.FrequencyHz > opts.MaxHz {
			continue
		}

		for h := 0; h <= opts.Harmonics; h++ {
			fCandidate := p.FrequencyHz / float64(h+1)
			pc := math.Mod(float64(opts.Size)*math.Log2(fCandidate/opts.ReferenceHz), float64(opts.Size))
			if pc < 0 {
				pc += float64(opts.Size)
			}

			contribution := math.Pow(0.8, float64(h)) * p.Magnitude * p.Magnitude

			target := pcp
			if opts.BandPreset {
				if p.FrequencyHz < opts.BandSplitHz {
					target = lowBand
					haveLow = true
				} else {
					target = highBand
					haveHigh = true
				}
			}

			distribute(target, pc, contribution, opts)
		}
	}

	if opts.BandPreset {
		if haveLow {
			normalizeMax(lowBand)
		}
		if haveHigh {
			normalizeMax(highBand)
		}
		for i := range pcp {
			pcp[i] = lowBand[i] + highBand[i]
		}
	}

	if opts.NonLinear {
		applyNonLinear(pcp)
	}
	if opts.MaxShifted {
		pcp = shiftToMax(pcp)
	}
	normalize(pcp, opts.Normalized)
	return pcp, nil
}

// distribute spreads weight across bins within windowSize semitones of the
// (possibly fractional) pitch class pc, wrapping around the circular size
// of the profile.
func distribute(pcp []float64, pc, weight float64, opts Options) {
	size := len(pcp)
	semitone := float64(size) / 12.0
	window := opts.WindowSize * semitone

	if opts.WeightType == WeightNone {
		bin := int(math.Round(pc)) % size
		pcp[bin] += weight
		return
	}

	lo := int(math.Floor(pc - window))
	hi := int(math.Ceil(pc + window))
	for b := lo; b <= hi; b++ {
		bin := ((b % size) + size) % size
		d := math.Abs(float64(b)-pc) / semitone
		if d > opts.WindowSize {
			continue
		}
		var w float64
		switch opts.WeightType {
		case WeightCosine:
			w = math.Cos(math.Pi / 2 * d / opts.WindowSize)
		case WeightSquaredCosine:
			c := math.Cos(math.Pi / 2 * d / opts.WindowSize)
			w = c * c
		default:
			w = 1
		}
		pcp[bin] += weight * w
	}
}

func normalizeMax(v []float64) {
	max := 0.0
	for _, x := range v {
		if x > max {
			max = x
		}
	}
	if max == 0 {
		return
	}
	for i := range v {
		v[i] /= max
	}
}

func applyNonLinear(pcp []float64) {
	max := 0.0
	for _, v := range pcp {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return
	}
	for i, v := range pcp {
		pcp[i] = v * v * math.Sin(math.Pi/2*v/max)
	}
}

func shiftToMax(pcp []float64) []float64 {
	maxIdx := 0
	for i, v := range pcp {
		if v > pcp[maxIdx] {
			maxIdx = i
		}
	}
	n := len(pcp)
	out := make([]float64, n)
	for i := range pcp {
		out[i] = pcp[(i+maxIdx)%n]
	}
	return out
}

func normalize(pcp []float64, mode Normalization) {
	switch mode {
	case NormalizeUnitMax:
		normalizeMax(pcp)
	case NormalizeUnitSum:
		sum := 0.0
		for _, v := range pcp {
			sum += v
		}
		if sum == 0 {
			return
		}
		for i := range pcp {
			pcp[i] /= sum
		}
	}
}
