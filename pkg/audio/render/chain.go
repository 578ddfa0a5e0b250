// ABOUTME: Pull-side pipeline joining a decode session to a resampler
// ABOUTME: Carries resampler output that did not fit into the caller's buffer over to the next read
package render

import (
	"fmt"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio/resample"
)

// DefaultChunkFrames is how many source frames the chain decodes per pull
const DefaultChunkFrames = 1024

// FrameReader hands out interleaved frames without blocking on the device.
// n is the number of samples written, always a whole number of frames. eof
// reports that no more frames will ever follow.
type FrameReader interface {
	ReadFrames(dst []float32) (n int, eof bool)
}

// Source is a decoded stream at its native rate, such as *decode.Session
type Source interface {
	ReadFrames(dst []float32) int
	Channels() int
}

// Chain pulls from a Source, resamples, and serves the result in whatever
// sizes the caller asks for. It is not safe for concurrent use.
type Chain struct {
	src      Source
	rs       *resample.Resampler
	channels int

	in       []float32
	carry    []float32
	carryPos int
	drained  bool
}

// NewChain joins src to rs. A nil rs passes frames through unchanged.
func NewChain(src Source, rs *resample.Resampler, chunkFrames int) (*Chain, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: source has %d channels", ErrInvalidConfig, channels)
	}
	if rs != nil && rs.Config().Channels != channels {
		return nil, fmt.Errorf("%w: resampler has %d channels, source %d",
			ErrInvalidConfig, rs.Config().Channels, channels)
	}
	if chunkFrames <= 0 {
		chunkFrames = DefaultChunkFrames
	}

	return &Chain{
		src:      src,
		rs:       rs,
		channels: channels,
		in:       make([]float32, chunkFrames*channels),
	}, nil
}

// Channels returns the channel count of the frames the chain produces
func (c *Chain) Channels() int { return c.channels }

// ReadFrames fills dst with whole frames. It decodes as needed, so it may
// perform file I/O.
func (c *Chain) ReadFrames(dst []float32) (int, bool) {
	dst = dst[:len(dst)-len(dst)%c.channels]
	written := 0

	for written < len(dst) {
		if c.carryPos < len(c.carry) {
			n := copy(dst[written:], c.carry[c.carryPos:])
			c.carryPos += n
			written += n
			continue
		}
		if c.drained {
			return written, true
		}
		c.pull()
	}

	return written, c.drained && c.carryPos >= len(c.carry)
}

// pull decodes one chunk and stages the resampled output in carry
func (c *Chain) pull() {
	c.carry = c.carry[:0]
	c.carryPos = 0

	n := c.src.ReadFrames(c.in)
	if n == 0 {
		c.drained = true
		if c.rs != nil {
			c.carry = append(c.carry, c.rs.Flush()...)
		}
		return
	}

	if c.rs == nil {
		c.carry = append(c.carry, c.in[:n]...)
		return
	}
	c.carry = append(c.carry, c.rs.Push(c.in[:n])...)
}
