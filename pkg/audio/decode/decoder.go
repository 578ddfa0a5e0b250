// ABOUTME: Decoder backend interfaces
// ABOUTME: Codecs parse a header and then yield one codec frame of PCM per call
package decode

import "io"

// PacketReader yields decoded codec frames. Each packet is interleaved
// float32 samples in [-1, 1]. io.EOF ends the stream; any other error is a
// corrupt frame that the caller may skip.
type PacketReader interface {
	ReadPacket() ([]float32, error)
}

// Stream is an opened codec bitstream with a fixed rate and channel count
type Stream interface {
	PacketReader

	// SampleRate returns the native rate from the stream header
	SampleRate() int

	// Channels returns the channel count from the stream header
	Channels() int

	// Close releases decoder resources
	Close() error
}

// Codec parses a stream header and returns a Stream positioned at the first frame
type Codec interface {
	Name() string
	NewStream(r io.Reader) (Stream, error)
}

// corrupt wraps a codec error so callers can match ErrCorruptFrame
func corrupt(codec string, err error) error {
	return &frameError{codec: codec, err: err}
}

type frameError struct {
	codec string
	err   error
}

func (e *frameError) Error() string {
	return e.codec + ": " + ErrCorruptFrame.Error() + ": " + e.err.Error()
}

func (e *frameError) Unwrap() []error {
	return []error{ErrCorruptFrame, e.err}
}
