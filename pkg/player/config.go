// ABOUTME: Player configuration with defaults and validation
// ABOUTME: Selects backend, threading mode, buffer size and resampling engine
package player

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/resample"
	"github.com/sirupsen/logrus"
)

// Mode selects how decoding is decoupled from the device callback
type Mode int

const (
	// ModeBuffered decodes on a producer goroutine into a lock-free ring
	ModeBuffered Mode = iota
	// ModeDirect decodes inside the device callback
	ModeDirect
)

func (m Mode) String() string {
	switch m {
	case ModeBuffered:
		return "buffered"
	case ModeDirect:
		return "direct"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "buffered":
		return ModeBuffered, nil
	case "direct":
		return ModeDirect, nil
	}
	return 0, fmt.Errorf("%w: mode %q", ErrInvalidConfig, name)
}

const (
	DefaultBufferMs = 200
	MinBufferMs     = 10
	MaxBufferMs     = 10000
)

// Config holds player configuration
type Config struct {
	// Path is the audio file to play
	Path string

	// Platform overrides Backend with an already constructed platform. The
	// player does not close a platform it did not create.
	Platform output.Platform

	// Backend names the output platform (malgo, oto, portaudio, null)
	Backend string

	// Request is the configuration asked of backends that cannot query the
	// hardware
	Request audio.StreamConfig

	Mode Mode

	// BufferMs is the ring size in buffered mode
	BufferMs int

	// ChunkFrames is how many source frames are decoded per pull
	ChunkFrames int

	// BatchFrames is the resampler's fixed input batch
	BatchFrames int

	Engine  resample.Engine
	Quality string

	// StrictChannels fails setup when the file and device channel counts differ
	StrictChannels bool

	// MaxConsecutiveSkips bounds runs of corrupt codec frames
	MaxConsecutiveSkips int

	Logger *logrus.Entry
}

func (c Config) withDefaults() Config {
	if c.Backend == "" && c.Platform == nil {
		c.Backend = "malgo"
	}
	if c.BufferMs == 0 {
		c.BufferMs = DefaultBufferMs
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return c
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: no input path", ErrInvalidConfig)
	}
	if c.BufferMs < MinBufferMs || c.BufferMs > MaxBufferMs {
		return fmt.Errorf("%w: buffer %dms outside %d-%dms", ErrInvalidConfig, c.BufferMs, MinBufferMs, MaxBufferMs)
	}
	if c.Mode != ModeBuffered && c.Mode != ModeDirect {
		return fmt.Errorf("%w: mode %s", ErrInvalidConfig, c.Mode)
	}
	if c.ChunkFrames < 0 || c.BatchFrames < 0 || c.MaxConsecutiveSkips < 0 {
		return fmt.Errorf("%w: negative frame count", ErrInvalidConfig)
	}
	return nil
}
