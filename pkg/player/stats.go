// ABOUTME: Playback statistics snapshot
// ABOUTME: Aggregates decoder, ring and renderer counters for logs and the status UI
package player

import (
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
)

// Stats contains playback statistics
type Stats struct {
	SessionID string
	Path      string
	Codec     string
	State     State

	SourceRate     int
	SourceChannels int
	Device         string
	DeviceConfig   audio.StreamConfig
	Mode           Mode
	Passthrough    bool

	DecodedFrames  uint64
	SkippedFrames  uint64
	RenderedFrames uint64
	SilentFrames   uint64
	Callbacks      uint64
	Underruns      uint64
	Faults         uint64

	// Buffered is how much audio sits in the ring (buffered mode only)
	Buffered time.Duration

	// Position is the amount of audio handed to the device
	Position time.Duration
	Elapsed  time.Duration
}

// Stats returns a snapshot of playback statistics. It is safe to call from
// any goroutine.
func (p *Player) Stats() Stats {
	p.mu.Lock()
	state := p.state
	started := p.started
	p.mu.Unlock()

	c := p.renderer.Counters()
	s := Stats{
		SessionID:      p.id,
		Path:           p.cfg.Path,
		Codec:          p.session.Codec(),
		State:          state,
		SourceRate:     p.session.SampleRate(),
		SourceChannels: p.session.Channels(),
		Device:         p.device.Name,
		DeviceConfig:   p.devCfg,
		Mode:           p.cfg.Mode,
		Passthrough:    p.resampler.Passthrough(),
		DecodedFrames:  p.session.Frames(),
		SkippedFrames:  p.session.Skipped(),
		RenderedFrames: c.Frames,
		SilentFrames:   c.SilentFrames,
		Callbacks:      c.Callbacks,
		Underruns:      c.Underruns,
		Faults:         c.Faults,
		Position:       p.devCfg.Duration(int(c.Frames)),
	}
	if p.ring != nil {
		s.Buffered = p.devCfg.Duration(p.ring.Len() / p.ring.Channels())
	}
	if !started.IsZero() {
		s.Elapsed = time.Since(started)
	}
	return s
}
