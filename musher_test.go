package musher

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/genia/musher/pcm"
	"github.com/genia/musher/wav"
)

func TestLoadAudioFileMissing(t *testing.T) {
	if _, err := LoadAudioFile("/nonexistent/file.wav"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeWAVRoundTripViaPublicAPI(t *testing.T) {
	sr := 8000
	n := 512
	left := make([]float64, n)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 440 * float64(i) / float64(sr))
	}
	orig := pcm.Audio{SampleRate: sr, BitDepth: 16, Channels: 1, Samples: [][]float64{left}}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := wav.Encode(path, orig); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeWAVFile(path)
	if err != nil {
		t.Fatalf("DecodeWAVFile: %v", err)
	}
	if got.SampleRate != sr || got.Channels != 1 {
		t.Fatalf("unexpected metadata: %+v", got)
	}
}

func TestDetectBPMOnSilenceReturnsZero(t *testing.T) {
	silence := make([]float64, 44100*4)
	bpm := DetectBPM([][]float64{silence}, 44100)
	if bpm != 0 {
		t.Fatalf("DetectBPM(silence) = %f, want 0", bpm)
	}
}

func TestDetectKeyOnEmptySignalReturnsZeroValue(t *testing.T) {
	out, err := DetectKey([][]float64{{}}, 44100, DefaultKeyOptions("Temperley"))
	if err != nil {
		t.Fatalf("DetectKey: %v", err)
	}
	if out.Key != "" {
		t.Fatalf("expected zero-value Output for an empty signal, got %+v", out)
	}
}

func TestDetectKeyOnToneDoesNotError(t *testing.T) {
	sr := 44100
	n := sr * 2
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*261.63*float64(i)/float64(sr)) // middle C
	}
	out, err := DetectKey([][]float64{signal}, sr, DefaultKeyOptions("Temperley"))
	if err != nil {
		t.Fatalf("DetectKey: %v", err)
	}
	if out.Key == "" {
		t.Fatal("expected a non-empty key for a non-silent, non-empty signal")
	}
}
