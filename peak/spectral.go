package peak

import (
	"fmt"

	"github.com/genia/musher/errs"
)

// SpectralPeak is a located spectral peak already converted to Hz.
type SpectralPeak struct {
	FrequencyHz float64
	Magnitude   float64
}

// SpectralOptions configures Spectral.
type SpectralOptions struct {
	SampleRate  int
	Threshold   float64
	Interpolate bool
	SortBy      SortBy
	MaxPeaks    int
	MinPos      float64 // in Hz; defaults to skipping DC if left at 0
}

// Spectral wraps Detect for a magnitude spectrum, mapping bin indices to
// frequencies in Hz via range = sample_rate/2 and guarding against
// reporting the DC bin as a peak.
func Spectral(magnitude []float64, opts SpectralOptions) ([]SpectralPeak, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("peak: sample rate must be positive: %w", errs.InvalidArgument)
	}
	minPos := opts.MinPos
	if minPos < 1 {
		minPos = 1
	}

	peaks, err := Detect(magnitude, Options{
		Threshold:   opts.Threshold,
		Interpolate: opts.Interpolate,
		SortBy:      opts.SortBy,
		MaxPeaks:    opts.MaxPeaks,
		Range:       float64(opts.SampleRate) / 2,
		MinPos:      minPos,
		MaxPos:      float64(opts.SampleRate) / 2,
	})
	if err != nil {
		return nil, err
	}

	out := make([]SpectralPeak, len(peaks))
	for i, p := range peaks {
		out[i] = SpectralPeak{FrequencyHz: p.Position, Magnitude: p.Height}
	}
	return out, nil
}
