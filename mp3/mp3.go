// Package mp3 adapts an external MP3 bitstream decoder to the same
// pcm.Audio shape wav.Decode produces. The actual frame decoding is treated
// as a black box, per the core's scope.
package mp3

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/genia/musher/errs"
	"github.com/genia/musher/pcm"
)

// go-mp3 always decodes to 16-bit little-endian stereo PCM, regardless of
// the source channel count.
const decodedChannels = 2

// Decode reads and fully decodes an MP3 file into a normalized pcm.Audio
// buffer, de-interleaving and dividing by 2^15 as the external interface
// contract requires.
func Decode(path string) (pcm.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm.Audio{}, fmt.Errorf("mp3: %v: %w", err, errs.IOError)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return pcm.Audio{}, fmt.Errorf("mp3: %v: %w", err, errs.DecodeFailure)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm.Audio{}, fmt.Errorf("mp3: %v: %w", err, errs.DecodeFailure)
	}

	const bytesPerSample = 2
	frameBytes := bytesPerSample * decodedChannels
	numSamples := len(raw) / frameBytes

	left := make([]float64, numSamples)
	right := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		l := int16(raw[i*frameBytes]) | int16(raw[i*frameBytes+1])<<8
		r := int16(raw[i*frameBytes+2]) | int16(raw[i*frameBytes+3])<<8
		left[i] = float64(l) / 32768.0
		right[i] = float64(r) / 32768.0
	}

	return pcm.Audio{
		SampleRate: dec.SampleRate(),
		BitDepth:   16,
		Channels:   decodedChannels,
		Samples:    [][]float64{left, right},
	}, nil
}

// DecodeBytes decodes an in-memory MP3 stream, for callers that already
// have the file contents (e.g. from LoadAudioFile).
func DecodeBytes(data []byte) (pcm.Audio, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return pcm.Audio{}, fmt.Errorf("mp3: %v: %w", err, errs.DecodeFailure)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm.Audio{}, fmt.Errorf("mp3: %v: %w", err, errs.DecodeFailure)
	}

	const bytesPerSample = 2
	frameBytes := bytesPerSample * decodedChannels
	numSamples := len(raw) / frameBytes

	left := make([]float64, numSamples)
	right := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		l := int16(raw[i*frameBytes]) | int16(raw[i*frameBytes+1])<<8
		r := int16(raw[i*frameBytes+2]) | int16(raw[i*frameBytes+3])<<8
		left[i] = float64(l) / 32768.0
		right[i] = float64(r) / 32768.0
	}

	return pcm.Audio{
		SampleRate: dec.SampleRate(),
		BitDepth:   16,
		Channels:   decodedChannels,
		Samples:    [][]float64{left, right},
	}, nil
}
