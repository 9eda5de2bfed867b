// Package pcm holds the normalized audio sample representation that every
// decoder produces and every analysis component consumes.
package pcm

// Audio is a decoded, normalized PCM buffer. Samples[c][i] is the i-th
// sample of channel c, in [-1, 1]. All channel slices share the same
// length. Audio is created by a decoder and never mutated afterward.
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   int
	Samples    [][]float64
}

// FrameCount returns the number of samples per channel, or 0 if Samples is
// empty.
func (a Audio) FrameCount() int {
	if len(a.Samples) == 0 {
		return 0
	}
	return len(a.Samples[0])
}

// Duration returns the length of the buffer in seconds.
func (a Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(a.FrameCount()) / float64(a.SampleRate)
}

// Mono sums the channels of samples and divides by the channel count,
// matching MonoMixer. An empty input yields an empty output.
func Mono(samples [][]float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	n := len(samples[0])
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	ch := float64(len(samples))
	for _, channel := range samples {
		for i, v := range channel {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= ch
	}
	return out
}
