// Command musher-analyze decodes a WAV or MP3 file and reports its
// estimated musical key and tempo as JSON on stdout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"

	"github.com/genia/musher"
)

func main() {
	filePath := flag.String("file", "", "Path to a WAV or MP3 file to analyze (required)")
	profile := flag.String("profile", "Temperley", "Tonal profile: Temperley, Edmm, or Bgate")
	targetSampleRate := flag.Int("target-sample-rate", 0, "Resample audio to this rate before analysis (0 disables)")
	windowSeconds := flag.Float64("bpm-window-seconds", 0, "If > 0, report the median BPM over non-overlapping windows of this length instead of a single whole-file estimate")
	flag.Parse()

	if *filePath == "" {
		die("missing required -file flag")
	}

	audio, err := decode(*filePath)
	if err != nil {
		die("decode %s: %v", *filePath, err)
	}

	if *targetSampleRate > 0 && *targetSampleRate != audio.SampleRate {
		if err := resampleInPlace(&audio, *targetSampleRate); err != nil {
			die("resample: %v", err)
		}
	}

	keyOut, err := musher.DetectKey(audio.Samples, audio.SampleRate, musher.DefaultKeyOptions(*profile))
	if err != nil {
		die("detect key: %v", err)
	}

	var bpm float64
	if *windowSeconds > 0 {
		bpm = musher.DetectBPMWindowed(audio.Samples, audio.SampleRate, *windowSeconds)
	} else {
		bpm = musher.DetectBPM(audio.Samples, audio.SampleRate)
	}

	result := struct {
		File                          string  `json:"file"`
		SampleRate                    int     `json:"sample_rate"`
		Key                           string  `json:"key"`
		Scale                         string  `json:"scale"`
		Strength                      float64 `json:"strength"`
		FirstToSecondRelativeStrength float64 `json:"first_to_second_relative_strength"`
		BPM                           float64 `json:"bpm"`
	}{
		File:                          *filePath,
		SampleRate:                    audio.SampleRate,
		Key:                           keyOut.Key,
		Scale:                         keyOut.Scale,
		Strength:                      keyOut.Strength,
		FirstToSecondRelativeStrength: keyOut.FirstToSecondRelativeStrength,
		BPM:                           bpm,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		die("encode result: %v", err)
	}
}

type decodedAudio struct {
	SampleRate int
	Samples    [][]float64
}

func decode(path string) (decodedAudio, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mp3") {
		a, err := musher.DecodeMP3(path)
		if err != nil {
			return decodedAudio{}, err
		}
		return decodedAudio{SampleRate: a.SampleRate, Samples: a.Samples}, nil
	}
	a, err := musher.DecodeWAVFile(path)
	if err != nil {
		return decodedAudio{}, err
	}
	return decodedAudio{SampleRate: a.SampleRate, Samples: a.Samples}, nil
}

func resampleInPlace(a *decodedAudio, targetRate int) error {
	for c := range a.Samples {
		r, err := dspresample.NewForRates(
			float64(a.SampleRate),
			float64(targetRate),
			dspresample.WithQuality(dspresample.QualityBest),
		)
		if err != nil {
			return err
		}
		a.Samples[c] = r.Process(a.Samples[c])
	}
	a.SampleRate = targetRate
	return nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
