//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
)

// PortAudio output platform (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio platform
func NewPortAudio() Platform {
	return &PortAudio{}
}

// Name returns the backend name
func (p *PortAudio) Name() string { return "portaudio" }

// DefaultDevice always fails in builds without the portaudio tag
func (p *PortAudio) DefaultDevice() (Device, error) {
	return Device{}, fmt.Errorf("%w: portaudio (build with -tags portaudio)", ErrBackendUnavailable)
}

// Register always fails in builds without the portaudio tag
func (p *PortAudio) Register(Device, audio.StreamConfig, Callback, FaultFunc) (Stream, error) {
	return nil, fmt.Errorf("%w: portaudio (build with -tags portaudio)", ErrBackendUnavailable)
}

// Close is a no-op
func (p *PortAudio) Close() error { return nil }
