// ABOUTME: Lock-free single-producer single-consumer ring of interleaved samples
// ABOUTME: The consumer side is safe to call from a real-time audio callback
package render

import (
	"fmt"
	"sync/atomic"
)

// Ring is a bounded SPSC queue of float32 samples. Exactly one goroutine may
// call Write and Close, and exactly one may call ReadFrames. Both sides only
// touch atomics, so neither ever blocks the other.
type Ring struct {
	buf      []float32
	size     uint64
	channels int

	head   atomic.Uint64 // samples written
	tail   atomic.Uint64 // samples read
	closed atomic.Bool
}

// NewRing creates a ring holding frames whole frames of channels samples
func NewRing(frames, channels int) (*Ring, error) {
	if frames <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: ring of %d frames x %d channels", ErrInvalidConfig, frames, channels)
	}
	size := frames * channels
	return &Ring{
		buf:      make([]float32, size),
		size:     uint64(size),
		channels: channels,
	}, nil
}

// Channels returns the frame width
func (r *Ring) Channels() int { return r.channels }

// Cap returns the capacity in samples
func (r *Ring) Cap() int { return int(r.size) }

// Len returns the number of buffered samples
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Free returns the number of samples that can be written without overwriting
func (r *Ring) Free() int {
	return int(r.size - (r.head.Load() - r.tail.Load()))
}

// Write copies as many whole frames from src as fit and returns the number
// of samples written. Writes after Close are dropped.
func (r *Ring) Write(src []float32) int {
	if r.closed.Load() {
		return 0
	}
	head := r.head.Load()
	free := int(r.size - (head - r.tail.Load()))
	n := min(len(src), free)
	n -= n % r.channels
	if n == 0 {
		return 0
	}

	start := int(head % r.size)
	first := copy(r.buf[start:], src[:n])
	copy(r.buf, src[first:n])

	r.head.Store(head + uint64(n))
	return n
}

// Close marks the end of the stream. Buffered samples remain readable.
func (r *Ring) Close() { r.closed.Store(true) }

// Closed reports whether Close has been called
func (r *Ring) Closed() bool { return r.closed.Load() }

// ReadFrames copies up to len(dst) samples, in whole frames, and reports eof
// once the ring is closed and fully drained.
func (r *Ring) ReadFrames(dst []float32) (int, bool) {
	closed := r.closed.Load()
	tail := r.tail.Load()
	avail := int(r.head.Load() - tail)
	n := min(len(dst), avail)
	n -= n % r.channels

	if n > 0 {
		start := int(tail % r.size)
		first := copy(dst[:n], r.buf[start:])
		copy(dst[first:n], r.buf)
		r.tail.Store(tail + uint64(n))
	}

	return n, closed && n == avail
}
