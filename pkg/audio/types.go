// ABOUTME: Audio type definitions
// ABOUTME: Defines device sample formats and the negotiated stream configuration
package audio

import (
	"fmt"
	"time"
)

// SampleFormat is the arithmetic representation a device expects for each sample
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatInt8
	FormatInt16
	FormatInt32
	FormatInt64
	FormatUInt8
	FormatUInt16
	FormatUInt32
	FormatUInt64
	FormatFloat32
	FormatFloat64
)

// Formats lists every supported device representation
var Formats = []SampleFormat{
	FormatInt8, FormatInt16, FormatInt32, FormatInt64,
	FormatUInt8, FormatUInt16, FormatUInt32, FormatUInt64,
	FormatFloat32, FormatFloat64,
}

var formatNames = map[SampleFormat]string{
	FormatInt8:    "i8",
	FormatInt16:   "i16",
	FormatInt32:   "i32",
	FormatInt64:   "i64",
	FormatUInt8:   "u8",
	FormatUInt16:  "u16",
	FormatUInt32:  "u32",
	FormatUInt64:  "u64",
	FormatFloat32: "f32",
	FormatFloat64: "f64",
}

// String returns the short format name (i16, f32, ...)
func (f SampleFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(f))
}

// Valid reports whether f is one of the supported representations
func (f SampleFormat) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// Size returns bytes per sample, 0 for unknown formats
func (f SampleFormat) Size() int {
	switch f {
	case FormatInt8, FormatUInt8:
		return 1
	case FormatInt16, FormatUInt16:
		return 2
	case FormatInt32, FormatUInt32, FormatFloat32:
		return 4
	case FormatInt64, FormatUInt64, FormatFloat64:
		return 8
	}
	return 0
}

// Bits returns the sample width in bits
func (f SampleFormat) Bits() int {
	return f.Size() * 8
}

// IsFloat reports whether f is a floating point representation
func (f SampleFormat) IsFloat() bool {
	return f == FormatFloat32 || f == FormatFloat64
}

// IsUnsigned reports whether f is an offset-binary integer representation
func (f SampleFormat) IsUnsigned() bool {
	switch f {
	case FormatUInt8, FormatUInt16, FormatUInt32, FormatUInt64:
		return true
	}
	return false
}

// ParseSampleFormat maps a short name back to its SampleFormat
func ParseSampleFormat(name string) (SampleFormat, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// StreamConfig describes the negotiated output stream. It is fixed for the
// lifetime of a playback session.
type StreamConfig struct {
	SampleRate int
	Channels   int
	Format     SampleFormat
}

// Validate checks that the configuration can drive a renderer
func (c StreamConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidConfig, c.Channels)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, c.Format)
	}
	return nil
}

// FrameSize returns the size in bytes of one interleaved output frame
func (c StreamConfig) FrameSize() int {
	return c.Channels * c.Format.Size()
}

// BufferBytes returns the byte length of an output buffer holding frames frames
func (c StreamConfig) BufferBytes(frames int) int {
	return frames * c.FrameSize()
}

// Duration returns the playback time of frames frames at this rate
func (c StreamConfig) Duration(frames int) time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// FramesFor returns how many frames fit in d at this rate
func (c StreamConfig) FramesFor(d time.Duration) int {
	return int(d * time.Duration(c.SampleRate) / time.Second)
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%dHz/%dch/%s", c.SampleRate, c.Channels, c.Format)
}
