// Package errs defines the error-kind sentinels shared across musher's
// packages, so a WAV parse failure and an HPCP argument failure can both be
// tested with errors.Is against a common, small vocabulary.
package errs

import "errors"

var (
	// InvalidFormat covers malformed WAV headers, unsupported bit depths,
	// non-PCM audio, and unsupported channel counts.
	InvalidFormat = errors.New("invalid format")

	// DecodeFailure covers rejections from an external MP3 decoder.
	DecodeFailure = errors.New("decode failure")

	// InvalidArgument covers bad caller-supplied parameters: zero frame or
	// hop size, non-power-of-two FFT input, a PCP size that isn't a
	// multiple of 12, or an unknown profile/window/weight name.
	InvalidArgument = errors.New("invalid argument")

	// IOError covers a file that cannot be opened by a convenience helper.
	IOError = errors.New("io error")
)
