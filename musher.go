// Package musher is a music-analysis core: it decodes WAV/MP3 audio,
// derives a harmonic pitch-class profile, estimates musical key against a
// bank of tonal templates, and estimates tempo via wavelet decomposition
// and autocorrelation.
package musher

import (
	"fmt"
	"os"

	"github.com/genia/musher/errs"
	"github.com/genia/musher/frame"
	"github.com/genia/musher/hpcp"
	"github.com/genia/musher/key"
	"github.com/genia/musher/mp3"
	"github.com/genia/musher/pcm"
	"github.com/genia/musher/peak"
	"github.com/genia/musher/spectrum"
	"github.com/genia/musher/tempo"
	"github.com/genia/musher/wav"
	"github.com/genia/musher/window"
)

// Re-exported error sentinels. Every error this package (or the packages
// it composes) returns wraps exactly one of these with errors.Is.
var (
	ErrInvalidFormat   = errs.InvalidFormat
	ErrDecodeFailure   = errs.DecodeFailure
	ErrInvalidArgument = errs.InvalidArgument
	ErrIOError         = errs.IOError
)

// Default parameters for the key- and tempo-detection pipelines, per the
// orchestrator's fixed analysis recipe.
const (
	keyFrameSize  = 4096
	keyHopSize    = 512
	pcpSize       = 36
	referenceHz   = 440.0
	numHarmonics  = 3 // harmonics beyond the fundamental, i.e. 4 total partials
	bandSplitHz   = 500.0
	hpcpMinHz     = 40.0
	hpcpMaxHz     = 5000.0
	hpcpWindowSz  = 0.5
	peakThreshold = -1000.0
	peakMaxCount  = 100
)

// LoadAudioFile reads path and returns its raw bytes, for callers that
// want to decide between DecodeWAV and DecodeMP3 themselves.
func LoadAudioFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("musher: %v: %w", err, errs.IOError)
	}
	return data, nil
}

// DecodeWAV parses RIFF/WAVE bytes into a normalized pcm.Audio buffer.
func DecodeWAV(data []byte) (pcm.Audio, error) {
	return wav.Decode(data)
}

// DecodeWAVFile reads and decodes a WAV file from disk.
func DecodeWAVFile(path string) (pcm.Audio, error) {
	return wav.DecodeFile(path)
}

// DecodeMP3 decodes an MP3 file from disk into a normalized pcm.Audio
// buffer.
func DecodeMP3(path string) (pcm.Audio, error) {
	return mp3.Decode(path)
}

// KeyOptions configures DetectKey's profile-matching behavior.
type KeyOptions struct {
	Profile        string
	UsePolyphony   bool
	UseThreeChords bool
	NumHarmonics   int
	Slope          float64
	UseMajMin      bool
}

// DefaultKeyOptions mirrors the orchestrator's published default call
// (EstimateKey(avgs, true, true, 4, 0.6, profile)).
func DefaultKeyOptions(profile string) KeyOptions {
	return KeyOptions{
		Profile:        profile,
		UsePolyphony:   true,
		UseThreeChords: true,
		NumHarmonics:   4,
		Slope:          0.6,
		UseMajMin:      false,
	}
}

// DetectKey runs the full key-estimation pipeline: mono mix, frame, window,
// spectrum, spectral peaks, HPCP accumulation, and template correlation.
func DetectKey(samples [][]float64, sampleRate int, opts KeyOptions) (key.Output, error) {
	mono := pcm.Mono(samples)

	cutter := frame.NewCutter(mono, frame.Options{
		FrameSize: keyFrameSize,
		HopSize:   keyHopSize,
	})

	sums := make([]float64, pcpSize)
	count := 0

	for f := range cutter.Frames() {
		windowed, err := window.Apply(f, window.Options{Type: window.BlackmanHarris62dB})
		if err != nil {
			return key.Output{}, err
		}

		mag, err := spectrum.Magnitude(windowed)
		if err != nil {
			return key.Output{}, err
		}

		peaks, err := peak.Spectral(mag, peak.SpectralOptions{
			SampleRate: sampleRate,
			Threshold:  peakThreshold,
			MaxPeaks:   peakMaxCount,
			SortBy:     peak.SortByHeight,
		})
		if err != nil {
			return key.Output{}, err
		}

		profile, err := hpcp.Compute(peaks, hpcp.Options{
			Size:        pcpSize,
			ReferenceHz: referenceHz,
			Harmonics:   numHarmonics,
			BandPreset:  true,
			BandSplitHz: bandSplitHz,
			MinHz:       hpcpMinHz,
			MaxHz:       hpcpMaxHz,
			WeightType:  hpcp.WeightSquaredCosine,
			WindowSize:  hpcpWindowSz,
		})
		if err != nil {
			return key.Output{}, err
		}

		for i, v := range profile {
			sums[i] += v
		}
		count++
	}

	if count == 0 {
		return key.Output{}, nil
	}
	for i := range sums {
		sums[i] /= float64(count)
	}

	// hpcp puts the reference pitch (A at 440 Hz) in bin 0, while
	// key.Estimate reads bin 0 as C; rotate so that C, three semitones
	// above A, comes first.
	cBin := 3 * pcpSize / 12
	avg := make([]float64, pcpSize)
	for i := range avg {
		avg[i] = sums[(i+cBin)%pcpSize]
	}

	return key.Estimate(avg, key.Options{
		UsePolyphony:   opts.UsePolyphony,
		UseThreeChords: opts.UseThreeChords,
		NumHarmonics:   opts.NumHarmonics,
		Slope:          opts.Slope,
		ProfileType:    opts.Profile,
		UseMajMin:      opts.UseMajMin,
	})
}

// DetectBPM mixes samples to mono and estimates the tempo in beats per
// minute; 0.0 means no confident periodicity was found.
func DetectBPM(samples [][]float64, sampleRate int) float64 {
	mono := pcm.Mono(samples)
	return tempo.Detect(mono, sampleRate)
}

// DetectBPMWindowed splits the mixed-down signal into windowSeconds-long
// chunks, estimates BPM independently on each, and returns their rounded
// median.
func DetectBPMWindowed(samples [][]float64, sampleRate int, windowSeconds float64) float64 {
	mono := pcm.Mono(samples)
	return tempo.DetectWindowed(mono, sampleRate, windowSeconds)
}
