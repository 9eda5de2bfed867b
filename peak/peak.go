// Package peak finds and ranks local maxima in a 1-D signal, with optional
// quadratic sub-sample interpolation.
package peak

import (
	"fmt"
	"math"
	"sort"

	"github.com/genia/musher/errs"
)

// Peak is a located local maximum.
type Peak struct {
	Position float64
	Height   float64
}

// SortBy selects the output ordering for Detect.
type SortBy int

const (
	SortByPosition SortBy = iota
	SortByHeight
)

// Options configures Detect.
type Options struct {
	Threshold   float64
	Interpolate bool
	SortBy      SortBy
	MaxPeaks    int // 0 means unlimited
	Range       float64
	MinPos      float64
	MaxPos      float64 // 0 means no upper limit
}

// Detect locates local maxima in signal and returns them filtered, scaled,
// sorted and truncated according to opts.
func Detect(signal []float64, opts Options) ([]Peak, error) {
	n := len(signal)
	if n == 0 {
		return nil, nil
	}

	var raw []Peak

	// Boundary: index 0.
	if n > 1 && signal[0] > signal[1] {
		raw = append(raw, Peak{Position: 0, Height: signal[0]})
	} else if n == 1 {
		raw = append(raw, Peak{Position: 0, Height: signal[0]})
	}

	i := 1
	for i < n-1 {
		if signal[i] <= signal[i-1] {
			i++
			continue
		}
		// signal[i] > signal[i-1]: find the extent of the plateau at
		// this height.
		j := i
		for j+1 < n-1 && signal[j+1] == signal[i] {
			j++
		}
		// j is the last index of the plateau (or i itself if none).
		// A peak exists only if the value drops (or the plateau runs
		// into the last index, handled separately below) after j.
		if j < n-1 && signal[j+1] < signal[i] {
			mid := (i + j) / 2 // biased toward the lower index on even-length plateaus
			if i == j && opts.Interpolate {
				pos, height := interpolate(signal, i)
				raw = append(raw, Peak{Position: pos, Height: height})
			} else {
				raw = append(raw, Peak{Position: float64(mid), Height: signal[i]})
			}
			i = j + 1
			continue
		}
		i = j + 1
	}

	// Boundary: last index.
	if n > 1 && signal[n-1] > signal[n-2] {
		raw = append(raw, Peak{Position: float64(n - 1), Height: signal[n-1]})
	}

	maxPos := opts.MaxPos
	if maxPos == 0 {
		maxPos = math.Inf(1)
	}

	scale := 1.0
	if opts.Range != 0 {
		scale = opts.Range / float64(n-1)
	}

	var out []Peak
	for _, p := range raw {
		if p.Height <= opts.Threshold {
			continue
		}
		scaledPos := p.Position * scale
		if scaledPos < opts.MinPos || scaledPos > maxPos {
			continue
		}
		out = append(out, Peak{Position: scaledPos, Height: p.Height})
	}

	switch opts.SortBy {
	case SortByPosition:
		sort.Slice(out, func(a, b int) bool { return out[a].Position < out[b].Position })
	case SortByHeight:
		sort.Slice(out, func(a, b int) bool {
			if out[a].Height != out[b].Height {
				return out[a].Height > out[b].Height
			}
			return out[a].Position < out[b].Position
		})
	default:
		return nil, fmt.Errorf("peak: unknown sort mode %d: %w", opts.SortBy, errs.InvalidArgument)
	}

	if opts.MaxPeaks > 0 && len(out) > opts.MaxPeaks {
		out = out[:opts.MaxPeaks]
	}
	return out, nil
}

// interpolate fits a parabola through (i-1,y-1), (i,y), (i+1,y+1) and
// returns the sub-sample peak position and height.
func interpolate(signal []float64, i int) (float64, float64) {
	yMinus := signal[i-1]
	y := signal[i]
	yPlus := signal[i+1]
	denom := yPlus - 2*y + yMinus
	if denom == 0 {
		return float64(i), y
	}
	offset := 0.5 * (yPlus - yMinus) / denom
	pos := float64(i) - offset
	height := y + 0.25*(yMinus-yPlus)*offset
	return pos, height
}
