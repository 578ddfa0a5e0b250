// ABOUTME: Decode session producing a lazy, forward-only sequence of PCM frames
// ABOUTME: Skips and counts corrupt codec frames instead of aborting playback
package decode

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultMaxConsecutiveSkips bounds how many corrupt frames in a row are
// tolerated before the stream is treated as ended.
const DefaultMaxConsecutiveSkips = 32

// Session wraps a codec Stream and hands out one frame at a time
type Session struct {
	stream   Stream
	source   io.Closer
	codec    string
	channels int
	rate     int

	packet []float32
	pos    int
	done   bool

	consecutive int
	maxSkips    int

	frames  atomic.Uint64
	skipped atomic.Uint64
	packets atomic.Uint64

	log *logrus.Entry
}

// Option customizes a Session
type Option func(*Session)

// WithMaxConsecutiveSkips sets the corrupt-run limit; n <= 0 keeps the default
func WithMaxConsecutiveSkips(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxSkips = n
		}
	}
}

// WithLogger routes session logs through entry
func WithLogger(entry *logrus.Entry) Option {
	return func(s *Session) {
		if entry != nil {
			s.log = entry
		}
	}
}

// withSource makes Close also close the underlying file
func withSource(c io.Closer) Option {
	return func(s *Session) { s.source = c }
}

// NewSession starts a session over an opened Stream
func NewSession(stream Stream, codec string, opts ...Option) (*Session, error) {
	if stream.SampleRate() <= 0 || stream.Channels() <= 0 {
		return nil, fmt.Errorf("%w: %s reports %dHz/%dch",
			ErrInvalidHeader, codec, stream.SampleRate(), stream.Channels())
	}

	s := &Session{
		stream:   stream,
		codec:    codec,
		channels: stream.Channels(),
		rate:     stream.SampleRate(),
		maxSkips: DefaultMaxConsecutiveSkips,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log.WithFields(logrus.Fields{
		"function":    "NewSession",
		"codec":       codec,
		"sample_rate": s.rate,
		"channels":    s.channels,
	}).Info("Decode session opened")

	return s, nil
}

// SampleRate returns the native stream rate
func (s *Session) SampleRate() int { return s.rate }

// Channels returns the stream channel count
func (s *Session) Channels() int { return s.channels }

// Codec returns the codec name
func (s *Session) Codec() string { return s.codec }

// Frames returns how many frames have been handed out
func (s *Session) Frames() uint64 { return s.frames.Load() }

// Skipped returns how many corrupt codec frames were dropped
func (s *Session) Skipped() uint64 { return s.skipped.Load() }

// Packets returns how many codec frames decoded successfully
func (s *Session) Packets() uint64 { return s.packets.Load() }

// Done reports whether the end of the stream has been reached
func (s *Session) Done() bool { return s.done }

// NextFrame returns the next interleaved frame, or false at end of stream.
// The slice is only valid until the next call.
func (s *Session) NextFrame() ([]float32, bool) {
	if !s.fill() {
		return nil, false
	}
	frame := s.packet[s.pos : s.pos+s.channels]
	s.pos += s.channels
	s.frames.Add(1)
	return frame, true
}

// ReadFrames copies as many whole frames as fit into dst and returns the
// number of samples written. Zero means end of stream.
func (s *Session) ReadFrames(dst []float32) int {
	written := 0
	for len(dst)-written >= s.channels {
		if !s.fill() {
			break
		}
		n := copy(dst[written:], s.packet[s.pos:])
		n -= n % s.channels
		s.pos += n
		written += n
		s.frames.Add(uint64(n / s.channels))
	}
	return written
}

// fill makes sure at least one frame is buffered
func (s *Session) fill() bool {
	for !s.done && s.pos >= len(s.packet) {
		pkt, err := s.stream.ReadPacket()
		switch {
		case err == nil:
			s.consecutive = 0
			pkt = pkt[:len(pkt)-len(pkt)%s.channels]
			if len(pkt) == 0 {
				continue
			}
			s.packets.Add(1)
			s.packet = pkt
			s.pos = 0
		case errors.Is(err, io.EOF):
			s.finish("end of stream")
		default:
			s.skipped.Add(1)
			s.consecutive++
			s.log.WithFields(logrus.Fields{
				"function": "fill",
				"codec":    s.codec,
				"skipped":  s.skipped.Load(),
				"error":    err,
			}).Debug("Skipping corrupt frame")
			if s.consecutive >= s.maxSkips {
				s.finish("too many consecutive corrupt frames")
			}
		}
	}
	return !s.done
}

func (s *Session) finish(reason string) {
	s.done = true
	s.packet = nil
	s.pos = 0
	s.log.WithFields(logrus.Fields{
		"function": "finish",
		"codec":    s.codec,
		"frames":   s.frames.Load(),
		"skipped":  s.skipped.Load(),
		"reason":   reason,
	}).Info("Decode session finished")
}

// Close releases the codec and the underlying source
func (s *Session) Close() error {
	err := s.stream.Close()
	if s.source != nil {
		if cerr := s.source.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
