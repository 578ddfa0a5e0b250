// ABOUTME: Background goroutine that keeps the ring filled from the decode chain
// ABOUTME: Parks while the ring is full and closes it at end of stream or on cancel
package render

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultParkInterval is how long the producer sleeps when the ring is full
const DefaultParkInterval = 5 * time.Millisecond

// Producer moves frames from a FrameReader into a Ring
type Producer struct {
	src  FrameReader
	ring *Ring
	buf  []float32
	park time.Duration

	done     chan struct{}
	produced atomic.Uint64
	log      *logrus.Entry
}

// NewProducer creates a producer that reads chunkFrames frames at a time
func NewProducer(src FrameReader, ring *Ring, chunkFrames int, park time.Duration) *Producer {
	if chunkFrames <= 0 {
		chunkFrames = DefaultChunkFrames
	}
	if park <= 0 {
		park = DefaultParkInterval
	}
	return &Producer{
		src:  src,
		ring: ring,
		buf:  make([]float32, chunkFrames*ring.Channels()),
		park: park,
		done: make(chan struct{}),
		log:  logrus.WithField("component", "producer"),
	}
}

// Start launches the producer goroutine
func (p *Producer) Start(ctx context.Context) {
	go p.Run(ctx)
}

// Done is closed once Run has returned
func (p *Producer) Done() <-chan struct{} { return p.done }

// Produced returns the number of samples handed to the ring
func (p *Producer) Produced() uint64 { return p.produced.Load() }

// Prime fills the ring synchronously until it is full or the source ends.
// It must be called before Start.
func (p *Producer) Prime() {
	for p.ring.Free() >= len(p.buf) {
		n, eof := p.src.ReadFrames(p.buf)
		written := p.ring.Write(p.buf[:n])
		p.produced.Add(uint64(written))
		if eof {
			p.ring.Close()
			return
		}
	}
}

// Run fills the ring until the source ends or ctx is cancelled
func (p *Producer) Run(ctx context.Context) {
	defer close(p.done)
	defer p.ring.Close()

	timer := time.NewTimer(p.park)
	defer timer.Stop()

	if p.ring.Closed() {
		return
	}

	pending := p.buf[:0]
	eof := false
	for {
		if len(pending) == 0 {
			if eof {
				p.log.WithFields(logrus.Fields{
					"function": "Run",
					"samples":  p.produced.Load(),
				}).Debug("Source drained")
				return
			}
			if ctx.Err() != nil {
				return
			}
			var n int
			n, eof = p.src.ReadFrames(p.buf)
			pending = p.buf[:n]
			continue
		}

		written := p.ring.Write(pending)
		pending = pending[written:]
		p.produced.Add(uint64(written))
		if written > 0 {
			continue
		}

		timer.Reset(p.park)
		select {
		case <-ctx.Done():
			p.log.WithField("function", "Run").Debug("Producer cancelled")
			return
		case <-timer.C:
		}
	}
}
