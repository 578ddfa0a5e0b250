// ABOUTME: Sentinel errors for the decode package
// ABOUTME: Separates setup failures from recoverable corrupt frames
package decode

import "errors"

// Setup errors. These abort a session before playback starts.
var (
	// ErrUnreadableSource indicates the input could not be opened or read
	ErrUnreadableSource = errors.New("audio source unreadable")

	// ErrInvalidHeader indicates the stream header could not be parsed
	ErrInvalidHeader = errors.New("invalid stream header")

	// ErrUnsupportedCodec indicates no decoder is registered for the input
	ErrUnsupportedCodec = errors.New("unsupported codec")

	// ErrCodecUnavailable indicates the decoder was not compiled in
	ErrCodecUnavailable = errors.New("codec not available in this build")
)

// ErrCorruptFrame marks a single undecodable codec frame. Sessions skip it.
var ErrCorruptFrame = errors.New("corrupt frame")
