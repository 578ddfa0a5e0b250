// ABOUTME: Sentinel errors for the resample package
// ABOUTME: Wraps configuration and engine failures for errors.Is checks
package resample

import "errors"

var (
	// ErrInvalidConfig indicates a non-positive rate, channel count or unknown engine
	ErrInvalidConfig = errors.New("invalid resampler config")

	// ErrEngine indicates the external resampling engine failed
	ErrEngine = errors.New("resampling engine failed")
)
