// Package tempo estimates beats-per-minute from a mono signal using a
// multi-level wavelet decomposition followed by autocorrelation, after
// Scheirer/Giannakopoulos-style BPM detectors.
package tempo

import (
	"sort"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
	algofft "github.com/cwbudde/algo-fft"

	"github.com/genia/musher/internal/wavelet"
	"github.com/genia/musher/peak"
)

const (
	levels        = 4
	maxDecimation = 1 << (levels - 1) // 8
	lowPassAlpha  = 0.99
	minBPM        = 40.0
	maxBPM        = 220.0
)

// Detect returns the estimated BPM of signal sampled at sampleRate, or 0.0
// if no confident periodicity is found.
func Detect(signal []float64, sampleRate int) float64 {
	if len(signal) == 0 || sampleRate <= 0 {
		return 0
	}

	cA := signal
	var levelDetails [][]float64
	for l := 0; l < levels; l++ {
		var cD []float64
		cA, cD = wavelet.Forward(cA)
		levelDetails = append(levelDetails, cD)
	}

	l := levelDetails[0]
	commonLen := len(l)/maxDecimation + 1

	acc := make([]float64, commonLen)
	for level, cD := range levelDetails {
		decimation := 1 << (levels - level - 1)
		processed := processDetail(cD, decimation)
		addTruncated(acc, processed)
	}

	allZero := true
	for _, v := range cA {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return 0
	}
	processed := processDetail(cA, 1)
	addTruncated(acc, processed)

	return pickBPM(acc, sampleRate)
}

// DetectWindowed splits signal into non-overlapping windows of
// windowSeconds*sampleRate samples, runs Detect on each, and returns the
// rounded median BPM across windows.
func DetectWindowed(signal []float64, sampleRate int, windowSeconds float64) float64 {
	windowLen := int(windowSeconds * float64(sampleRate))
	if windowLen <= 0 || len(signal) == 0 {
		return 0
	}

	var bpms []float64
	for start := 0; start+windowLen <= len(signal); start += windowLen {
		bpm := Detect(signal[start:start+windowLen], sampleRate)
		if bpm > 0 {
			bpms = append(bpms, bpm)
		}
	}
	if len(bpms) == 0 {
		return 0
	}
	sort.Float64s(bpms)
	mid := len(bpms) / 2
	var median float64
	if len(bpms)%2 == 0 {
		median = (bpms[mid-1] + bpms[mid]) / 2
	} else {
		median = bpms[mid]
	}
	return roundHalfAwayFromZero(median)
}

// processDetail applies the one-pole low-pass, rectifies, decimates, and
// mean-subtracts cD, matching the per-level detail processing step.
func processDetail(cD []float64, decimation int) []float64 {
	filtered := make([]float64, len(cD))
	y := 0.0
	for i, x := range cD {
		y = (1-lowPassAlpha)*y + lowPassAlpha*x
		y = dspcore.FlushDenormals(y)
		filtered[i] = y
	}
	for i := range filtered {
		if filtered[i] < 0 {
			filtered[i] = -filtered[i]
		}
	}

	decimated := decimate(filtered, decimation)

	mean := 0.0
	for _, v := range decimated {
		mean += v
	}
	if len(decimated) > 0 {
		mean /= float64(len(decimated))
	}
	for i := range decimated {
		decimated[i] -= mean
	}
	return decimated
}

func decimate(signal []float64, factor int) []float64 {
	if factor <= 1 {
		return signal
	}
	out := make([]float64, 0, len(signal)/factor+1)
	for i := 0; i < len(signal); i += factor {
		out = append(out, signal[i])
	}
	return out
}

// addTruncated adds src into acc elementwise, truncating src to len(acc)
// if it runs longer and only adding the overlapping prefix if shorter.
func addTruncated(acc, src []float64) {
	n := len(acc)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		acc[i] += src[i]
	}
}

// pickBPM autocorrelates acc with its own reverse via FFT convolution,
// picks the strongest peak within the BPM search window, and converts the
// winning lag to beats per minute.
func pickBPM(acc []float64, sampleRate int) float64 {
	n := len(acc)
	if n == 0 {
		return 0
	}

	reversed := make([]float64, n)
	for i, v := range acc {
		reversed[n-1-i] = v
	}

	a32 := toFloat32(acc)
	b32 := toFloat32(reversed)
	convLen := n + n - 1
	conv32 := make([]float32, convLen)
	if err := algofft.ConvolveReal(conv32, a32, b32); err != nil {
		return 0
	}

	// The positive-lag half of the autocorrelation starts at the center
	// of the full convolution (lag 0 sits there since we convolved with
	// the reverse).
	positive := make([]float64, n)
	for i := 0; i < n; i++ {
		positive[i] = float64(conv32[n-1+i])
	}

	minIdx := int(60.0 / maxBPM * float64(sampleRate) / float64(maxDecimation))
	maxIdx := int(60.0 / minBPM * float64(sampleRate) / float64(maxDecimation))
	if maxIdx >= len(positive) {
		maxIdx = len(positive) - 1
	}
	if minIdx >= maxIdx {
		return 0
	}

	window := positive[minIdx : maxIdx+1]
	absWindow := make([]float64, len(window))
	for i, v := range window {
		absWindow[i] = absf(v)
	}

	peaks, err := peak.Detect(absWindow, peak.Options{
		Threshold:   -1e18,
		Interpolate: true,
		SortBy:      peak.SortByHeight,
	})
	if err != nil || len(peaks) == 0 {
		return 0
	}

	best := peaks[0]
	if best.Position == 0 {
		return 0
	}

	return 60.0 / (best.Position + float64(minIdx)) * (float64(sampleRate) / float64(maxDecimation))
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
