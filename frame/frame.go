// Package frame cuts a flat sample buffer into fixed-size, overlapping
// frames for downstream spectral analysis.
package frame

import "iter"

// Options configures a Cutter. FrameSize and HopSize must be positive;
// HopSize may exceed FrameSize.
type Options struct {
	FrameSize int
	HopSize   int

	// StartFromZero places the first frame's start at sample 0. When
	// false (the default), the first frame is centered on sample 0, i.e.
	// starts at -FrameSize/2, so its leading half is zero-padded.
	StartFromZero bool

	// ValidFrameThresholdRatio rejects a frame whose in-buffer portion
	// covers less than this fraction of FrameSize. Zero disables the
	// check.
	ValidFrameThresholdRatio float64

	// LastFrameToEndOfFile, when true, skips frames that fail the
	// threshold check instead of stopping iteration at the first one.
	LastFrameToEndOfFile bool
}

// Cutter produces overlapping frames from buffer according to opts. A
// Cutter can be iterated more than once; each call to Frames returns an
// independent sequence starting from the beginning of buffer.
type Cutter struct {
	buffer []float64
	opts   Options
}

// NewCutter builds a Cutter over buffer. Centered mode (the default) is
// selected by leaving StartFromZero false.
func NewCutter(buffer []float64, opts Options) Cutter {
	return Cutter{buffer: buffer, opts: opts}
}

// Frames returns a restartable iterator over FrameSize-length windows of
// the buffer. Each yielded slice is a freshly allocated copy; zero-padding
// is applied at the edges of the buffer. Iteration stops once a frame's
// start position reaches or passes the end of the buffer — this bound
// governs both centered and edge-aligned modes.
func (c Cutter) Frames() iter.Seq[[]float64] {
	return func(yield func([]float64) bool) {
		bufferLen := len(c.buffer)
		frameSize := c.opts.FrameSize
		hopSize := c.opts.HopSize
		if frameSize <= 0 || hopSize <= 0 || bufferLen == 0 {
			return
		}

		start := 0
		if !c.opts.StartFromZero {
			start = -frameSize / 2
		}

		for start < bufferLen {
			frame, validRatio := c.cut(start, frameSize)

			if c.opts.ValidFrameThresholdRatio > 0 && validRatio < c.opts.ValidFrameThresholdRatio {
				if c.opts.LastFrameToEndOfFile {
					start += hopSize
					continue
				}
				return
			}

			if !yield(frame) {
				return
			}
			start += hopSize
		}
	}
}

// cut extracts one frame beginning at start (which may be negative or run
// past the end of the buffer), zero-padding outside [0, bufferLen), and
// reports the fraction of the frame that came from within the buffer.
func (c Cutter) cut(start, frameSize int) ([]float64, float64) {
	bufferLen := len(c.buffer)
	out := make([]float64, frameSize)
	valid := 0
	for i := 0; i < frameSize; i++ {
		src := start + i
		if src >= 0 && src < bufferLen {
			out[i] = c.buffer[src]
			valid++
		}
	}
	if frameSize == 0 {
		return out, 0
	}
	return out, float64(valid) / float64(frameSize)
}
