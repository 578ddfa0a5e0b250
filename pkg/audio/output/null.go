// ABOUTME: In-process output platform with no hardware behind it
// ABOUTME: Drives the callback on demand for tests or on a timer for headless runs
package output

import (
	"context"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/sirupsen/logrus"
)

// DefaultNullPeriod is the callback size in frames for a realtime null device
const DefaultNullPeriod = 512

// NullOptions configures a Null platform
type NullOptions struct {
	Config audio.StreamConfig

	// NoDevice makes DefaultDevice fail with ErrNoDevice
	NoDevice bool

	// Realtime invokes the callback from a goroutine at the device rate once
	// the stream is started
	Realtime bool

	PeriodFrames int
}

// Null is an output platform that discards audio
type Null struct {
	opts NullOptions

	mu      sync.Mutex
	streams []*NullStream
}

// NewNull creates a null platform
func NewNull(opts NullOptions) *Null {
	if opts.PeriodFrames <= 0 {
		opts.PeriodFrames = DefaultNullPeriod
	}
	return &Null{opts: opts}
}

// Name returns the backend name
func (n *Null) Name() string { return "null" }

// DefaultDevice reports the configured device
func (n *Null) DefaultDevice() (Device, error) {
	if n.opts.NoDevice {
		return Device{}, ErrNoDevice
	}
	return Device{ID: "null", Name: "null output", Backend: n.Name(), Config: n.opts.Config}, nil
}

// Register creates a stream that calls cb when pumped
func (n *Null) Register(dev Device, cfg audio.StreamConfig, cb Callback, onFault FaultFunc) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &NullStream{
		cfg:     cfg,
		cb:      cb,
		onFault: onFault,
		buf:     make([]byte, cfg.BufferBytes(n.opts.PeriodFrames)),
		period:  n.opts.PeriodFrames,
	}
	if n.opts.Realtime {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}

	n.mu.Lock()
	n.streams = append(n.streams, s)
	n.mu.Unlock()
	return s, nil
}

// Streams returns every stream registered so far
func (n *Null) Streams() []*NullStream {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*NullStream(nil), n.streams...)
}

// Close closes any stream still open
func (n *Null) Close() error {
	for _, s := range n.Streams() {
		_ = s.Close()
	}
	return nil
}

// NullStream is a registered null callback
type NullStream struct {
	cfg     audio.StreamConfig
	cb      Callback
	onFault FaultFunc
	buf     []byte
	period  int

	mu      sync.Mutex
	started bool
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Start enables callbacks
func (s *NullStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}
	if s.started {
		return nil
	}
	s.started = true
	if s.ctx != nil {
		s.done = make(chan struct{})
		go s.run()
	}
	return nil
}

func (s *NullStream) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.Duration(s.period))
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Pump(s.period)
		}
	}
}

// Pump invokes the callback for frames frames and returns the rendered
// bytes, or nil when the stream is not running. The result is only valid
// until the next Pump.
func (s *NullStream) Pump(frames int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.closed {
		return nil
	}
	n := s.cfg.BufferBytes(frames)
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	out := s.buf[:n]
	s.cb(out)
	return out
}

// Fault simulates the platform stopping the stream
func (s *NullStream) Fault(err error) {
	if err == nil {
		err = ErrDeviceStopped
	}
	logrus.WithFields(logrus.Fields{
		"function": "Fault",
		"error":    err,
	}).Debug("Null stream fault")
	if s.onFault != nil {
		s.onFault(err)
	}
}

// Closed reports whether Close has been called
func (s *NullStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close waits for any in-flight callback and stops further ones
func (s *NullStream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Lock()
	s.closed = true
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	return nil
}
