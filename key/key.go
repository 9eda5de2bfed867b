// Package key scores a pitch-class profile against a bank of tonal
// templates and reports the best-matching musical key and scale.
package key

import (
	"fmt"
	"math"

	"github.com/genia/musher/errs"
)

// flatNames is the chromatic scale spelled with flats, per the component's
// naming convention: sharps only at C# and F#, flats everywhere else.
var flatNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// profile holds a named pair (or two pairs, for three-chord variants) of
// 12-bin tonal template weights.
type profile struct {
	major  [12]float64
	minor  [12]float64
	major2 [12]float64
	minor2 [12]float64
}

// Profiles are published tonal-weight tables used by key-finding
// algorithms in the music-information-retrieval literature; the exact
// digits vary slightly by source but the rank structure (tonic and
// dominant pitch classes weighted highest) is what the correlation score
// is sensitive to.
var profiles = map[string]profile{
	"Temperley": {
		major:  [12]float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		minor:  [12]float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
		major2: [12]float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		minor2: [12]float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
	},
	"Edmm": {
		major:  [12]float64{18.2, 0.8, 7.8, 0.4, 14.8, 10.1, 0.6, 18.2, 0.4, 7.8, 0.4, 9.3},
		minor:  [12]float64{18.2, 0.8, 7.8, 14.8, 0.4, 10.1, 0.6, 18.2, 7.8, 0.4, 4.7, 0.4},
		major2: [12]float64{18.2, 0.8, 7.8, 0.4, 14.8, 10.1, 0.6, 18.2, 0.4, 7.8, 0.4, 9.3},
		minor2: [12]float64{18.2, 0.8, 7.8, 14.8, 0.4, 10.1, 0.6, 18.2, 7.8, 0.4, 4.7, 0.4},
	},
	"Bgate": {
		major:  [12]float64{1.00, 0.12, 0.45, 0.10, 0.65, 0.52, 0.10, 0.90, 0.12, 0.45, 0.12, 0.50},
		minor:  [12]float64{1.00, 0.12, 0.45, 0.65, 0.10, 0.52, 0.10, 0.90, 0.45, 0.10, 0.30, 0.10},
		major2: [12]float64{0.80, 0.08, 0.30, 0.08, 0.50, 0.40, 0.08, 0.70, 0.08, 0.30, 0.08, 0.35},
		minor2: [12]float64{0.80, 0.08, 0.30, 0.50, 0.08, 0.40, 0.08, 0.70, 0.30, 0.08, 0.20, 0.08},
	},
}

// Options configures Estimate.
type Options struct {
	UsePolyphony   bool
	UseThreeChords bool
	NumHarmonics   int // total harmonics including the fundamental
	Slope          float64
	ProfileType    string
	UseMajMin      bool // adds a third, scale-ambiguous "majmin" candidate per tonic
}

// Output is the winning key, scale, and correlation-strength metrics.
type Output struct {
	Key                           string
	Scale                         string
	Strength                      float64
	FirstToSecondRelativeStrength float64
}

// Estimate scores pcp (which may be any multiple-of-12 size) against the
// named tonal profile's rotated templates and returns the best match.
func Estimate(pcp []float64, opts Options) (Output, error) {
	p, ok := profiles[opts.ProfileType]
	if !ok {
		return Output{}, fmt.Errorf("key: unknown profile %q: %w", opts.ProfileType, errs.InvalidArgument)
	}

	bins12 := downsampleTo12(pcp)

	major := p.major
	minor := p.minor
	if opts.UseThreeChords {
		major = sum12(major, p.major2)
		minor = sum12(minor, p.minor2)
	}
	if opts.UsePolyphony {
		major = convolveHarmonics(major, opts.NumHarmonics, opts.Slope)
		minor = convolveHarmonics(minor, opts.NumHarmonics, opts.Slope)
	}

	type candidate struct {
		tonic int
		scale string
		score float64
	}

	var candidates []candidate
	for tonic := 0; tonic < 12; tonic++ {
		candidates = append(candidates,
			candidate{tonic, "major", pearson(bins12, rotate12(major, tonic))},
			candidate{tonic, "minor", pearson(bins12, rotate12(minor, tonic))},
		)
	}
	if opts.UseMajMin {
		majmin := avg12(major, minor)
		for tonic := 0; tonic < 12; tonic++ {
			candidates = append(candidates,
				candidate{tonic, "majmin", pearson(bins12, rotate12(majmin, tonic))},
			)
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	secondBest := -1.0
	found := false
	for _, c := range candidates {
		if c.scale == best.scale {
			continue
		}
		if !found || c.score > secondBest {
			secondBest = c.score
			found = true
		}
	}

	relStrength := 0.0
	if best.score != 0 {
		relStrength = (best.score - secondBest) / best.score
	}

	return Output{
		Key:                           flatNames[best.tonic],
		Scale:                         best.scale,
		Strength:                      best.score,
		FirstToSecondRelativeStrength: relStrength,
	}, nil
}

// downsampleTo12 folds a size>12 PCP down to 12 bins: output bin i is the
// sum of the size/12 adjacent input bins starting at i*size/12.
func downsampleTo12(pcp []float64) [12]float64 {
	var out [12]float64
	if len(pcp) == 12 {
		copy(out[:], pcp)
		return out
	}
	step := len(pcp) / 12
	if step == 0 {
		copy(out[:], pcp)
		return out
	}
	for i := 0; i < 12; i++ {
		sum := 0.0
		for j := 0; j < step; j++ {
			sum += pcp[i*step+j]
		}
		out[i] = sum
	}
	return out
}

// rotate12 rotates template so that its index 0 (the tonic weight) lands
// at index `tonic`, matching a candidate key whose tonic is `tonic`
// semitones above C.
func rotate12(template [12]float64, tonic int) [12]float64 {
	var out [12]float64
	for i := 0; i < 12; i++ {
		out[i] = template[(i+12-tonic)%12]
	}
	return out
}

// convolveHarmonics spreads each base template weight across its
// harmonic series, per the component's polyphony model.
func convolveHarmonics(template [12]float64, numHarmonics int, slope float64) [12]float64 {
	var out [12]float64
	for p, v := range template {
		for h := 1; h <= numHarmonics; h++ {
			offset := int(math.Round(math.Log2(float64(h))*12)) % 12
			if offset < 0 {
				offset += 12
			}
			target := (p + offset) % 12
			out[target] += v * math.Pow(slope, float64(h-1))
		}
	}
	return out
}

func sum12(a, b [12]float64) [12]float64 {
	var out [12]float64
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// avg12 blends major and minor into a third, scale-ambiguous template for
// the majmin candidate set, used for material (e.g. power chords) where
// the major/minor third is not present.
func avg12(a, b [12]float64) [12]float64 {
	var out [12]float64
	for i := range out {
		out[i] = (a[i] + b[i]) / 2
	}
	return out
}

// pearson computes the Pearson correlation coefficient between two
// equal-length vectors.
func pearson(a, b [12]float64) float64 {
	n := float64(len(a))
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA, meanB := sumA/n, sumB/n

	var num, denomA, denomB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		denomA += da * da
		denomB += db * db
	}
	denom := math.Sqrt(denomA * denomB)
	if denom == 0 {
		return 0
	}
	return num / denom
}
