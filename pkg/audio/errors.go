// ABOUTME: Sentinel errors for the audio package
// ABOUTME: Used to classify negotiation and conversion failures with errors.Is
package audio

import "errors"

var (
	// ErrUnsupportedFormat indicates a sample representation with no conversion
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrInvalidConfig indicates a non-positive rate or channel count
	ErrInvalidConfig = errors.New("invalid stream config")
)
