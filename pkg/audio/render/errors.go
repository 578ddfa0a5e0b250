// ABOUTME: Sentinel errors for the render package
// ABOUTME: Construction-time failures only; the render path itself never returns errors
package render

import "errors"

var (
	// ErrChannelMismatch indicates strict channel mapping was requested and
	// the source and device channel counts differ
	ErrChannelMismatch = errors.New("channel count mismatch")

	// ErrInvalidConfig indicates a non-positive size or channel count
	ErrInvalidConfig = errors.New("invalid render config")
)
