// Package wav decodes and encodes linear-PCM RIFF/WAVE files.
//
// Decode is a from-scratch, tag-based chunk parser: it does not assume the
// "fmt " and "data" chunks sit at fixed offsets, so auxiliary chunks (LIST,
// bext, ...) between them are tolerated. Encode is a thin convenience layer
// over github.com/cwbudde/wav for writing fixtures and round-tripping in
// tests; there is no in-scope algorithm in the encode path worth hand
// rolling.
package wav

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/genia/musher/errs"
	"github.com/genia/musher/pcm"
)

// Decode parses RIFF/WAVE bytes into a normalized pcm.Audio buffer.
func Decode(data []byte) (pcm.Audio, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return pcm.Audio{}, fmt.Errorf("wav: not a RIFF/WAVE file: %w", errs.InvalidFormat)
	}

	fmtOffset := findChunk(data, "fmt ", 12)
	if fmtOffset < 0 {
		return pcm.Audio{}, fmt.Errorf("wav: missing fmt chunk: %w", errs.InvalidFormat)
	}
	dataOffset := findChunk(data, "data", 12)
	if dataOffset < 0 {
		return pcm.Audio{}, fmt.Errorf("wav: missing data chunk: %w", errs.InvalidFormat)
	}

	if fmtOffset+24 > len(data) {
		return pcm.Audio{}, fmt.Errorf("wav: fmt chunk truncated: %w", errs.InvalidFormat)
	}
	f := fmtOffset + 8
	audioFormat := le16(data, f)
	channels := int(le16(data, f+2))
	sampleRate := le32(data, f+4)
	bytesPerSecond := le32(data, f+8)
	blockAlign := int(le16(data, f+12))
	bitDepth := int(le16(data, f+14))

	if audioFormat != 1 {
		return pcm.Audio{}, fmt.Errorf("wav: audio_format %d is not PCM: %w", audioFormat, errs.InvalidFormat)
	}
	if channels != 1 && channels != 2 {
		return pcm.Audio{}, fmt.Errorf("wav: unsupported channel count %d: %w", channels, errs.InvalidFormat)
	}
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 {
		return pcm.Audio{}, fmt.Errorf("wav: unsupported bit depth %d: %w", bitDepth, errs.InvalidFormat)
	}
	wantBytesPerSecond := uint32(channels) * sampleRate * uint32(bitDepth) / 8
	if bytesPerSecond != wantBytesPerSecond {
		return pcm.Audio{}, fmt.Errorf("wav: bytes_per_second %d != %d: %w", bytesPerSecond, wantBytesPerSecond, errs.InvalidFormat)
	}
	wantBlockAlign := channels * bitDepth / 8
	if blockAlign != wantBlockAlign {
		return pcm.Audio{}, fmt.Errorf("wav: block_align %d != %d: %w", blockAlign, wantBlockAlign, errs.InvalidFormat)
	}

	d := dataOffset + 8
	if d+4 > len(data) {
		return pcm.Audio{}, fmt.Errorf("wav: data chunk truncated: %w", errs.InvalidFormat)
	}
	dataChunkSize := int(le32(data, dataOffset+4))
	bytesPerSample := bitDepth / 8
	numSamples := dataChunkSize / blockAlign

	samples := make([][]float64, channels)
	for c := range samples {
		samples[c] = make([]float64, numSamples)
	}

	for i := 0; i < numSamples; i++ {
		for c := 0; c < channels; c++ {
			idx := d + i*blockAlign + c*bytesPerSample
			if idx+bytesPerSample > len(data) {
				break
			}
			samples[c][i] = decodeSample(data, idx, bitDepth)
		}
	}

	return pcm.Audio{
		SampleRate: int(sampleRate),
		BitDepth:   bitDepth,
		Channels:   channels,
		Samples:    samples,
	}, nil
}

// DecodeFile reads a file from disk and decodes it.
func DecodeFile(path string) (pcm.Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pcm.Audio{}, fmt.Errorf("wav: %v: %w", err, errs.IOError)
	}
	return Decode(data)
}

// findChunk linearly searches for a 4-byte chunk tag starting at offset,
// returning the index of the tag itself, or -1 if not found.
func findChunk(data []byte, tag string, offset int) int {
	for i := offset; i+8 <= len(data); {
		id := string(data[i : i+4])
		size := int(le32(data, i+4))
		if id == tag {
			return i
		}
		advance := 8 + size
		if size%2 == 1 {
			advance++ // chunks are word-aligned
		}
		if advance <= 0 {
			break
		}
		i += advance
	}
	return -1
}

func le16(b []byte, i int) uint16 {
	return binary.LittleEndian.Uint16(b[i : i+2])
}

func le32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i : i+4])
}

// decodeSample reads one sample at offset idx and normalizes it to
// [-1, 1], matching the per-width formulas in the decoder's source format:
// 8-bit is unsigned, 16/24-bit are little-endian signed with 24-bit
// sign-extended into a 32-bit word when bit 23 is set.
func decodeSample(data []byte, idx int, bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return (float64(data[idx]) - 128.0) / 128.0
	case 16:
		v := int16(binary.LittleEndian.Uint16(data[idx : idx+2]))
		return float64(v) / 32768.0
	case 24:
		raw := int32(data[idx]) | int32(data[idx+1])<<8 | int32(data[idx+2])<<16
		if raw&0x800000 != 0 {
			raw |= ^0xFFFFFF // sign-extend into 32 bits
		}
		return float64(raw) / 8388608.0
	}
	return 0
}

// Encode writes a.Samples as a 16-bit PCM WAV file to path. Samples are
// clipped to [-1, 1] before quantization.
func Encode(path string, a pcm.Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: %v: %w", err, errs.IOError)
	}
	defer f.Close()

	channels := a.Channels
	if channels == 0 {
		channels = len(a.Samples)
	}
	enc := wav.NewEncoder(f, a.SampleRate, 16, channels, 1)
	defer enc.Close()

	n := a.FrameCount()
	interleaved := make([]float32, n*channels)
	for i := 0; i < n; i++ {
		for c := 0; c < channels; c++ {
			v := a.Samples[c][i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			interleaved[i*channels+c] = float32(v)
		}
	}

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  a.SampleRate,
			NumChannels: channels,
		},
		Data:           interleaved,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
