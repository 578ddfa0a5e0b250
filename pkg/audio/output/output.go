// ABOUTME: Output platform abstraction and device/format negotiation
// ABOUTME: A Platform exposes one default device and drives a byte-buffer render callback
package output

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/sirupsen/logrus"
)

// Callback fills out with device-native little-endian samples. It runs on
// the platform's audio thread and must not block.
type Callback func(out []byte)

// FaultFunc is told when the platform stops a stream on its own
type FaultFunc func(err error)

// Device is an acquired playback device and its default configuration
type Device struct {
	ID      string
	Name    string
	Backend string
	Config  audio.StreamConfig
}

// Stream is a registered callback on a device
type Stream interface {
	// Start begins invoking the callback
	Start() error

	// Close stops the stream. Any callback in progress completes first and
	// none run afterwards.
	Close() error
}

// Platform is an audio output library binding
type Platform interface {
	Name() string

	// DefaultDevice returns the system default playback device with its
	// default configuration, or ErrNoDevice
	DefaultDevice() (Device, error)

	// Register attaches cb to dev running cfg
	Register(dev Device, cfg audio.StreamConfig, cb Callback, onFault FaultFunc) (Stream, error)

	// Close releases the platform and any device handle it holds
	Close() error
}

// Negotiate selects the default device and adopts its default configuration
// as the session configuration. There is no fallback: a missing device,
// configuration or format fails setup.
func Negotiate(p Platform) (Device, audio.StreamConfig, error) {
	dev, err := p.DefaultDevice()
	if err != nil {
		return Device{}, audio.StreamConfig{}, err
	}

	cfg := dev.Config
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 {
		return Device{}, audio.StreamConfig{}, fmt.Errorf("%w: %s reports %dHz/%dch",
			ErrNoConfig, dev.Name, cfg.SampleRate, cfg.Channels)
	}
	if _, err := audio.EncoderFor(cfg.Format); err != nil {
		return Device{}, audio.StreamConfig{}, fmt.Errorf("device %s: %w", dev.Name, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Negotiate",
		"backend":  p.Name(),
		"device":   dev.Name,
		"config":   cfg.String(),
	}).Info("Output device negotiated")

	return dev, cfg, nil
}

// Backends lists the names accepted by Open
var Backends = []string{"malgo", "oto", "portaudio", "null"}

// Open creates the named platform. cfg is the requested configuration for
// backends that cannot query the hardware (oto, null); others ignore it.
func Open(backend string, cfg audio.StreamConfig) (Platform, error) {
	switch strings.ToLower(backend) {
	case "", "malgo":
		return NewMalgo(), nil
	case "oto":
		return NewOto(cfg), nil
	case "portaudio":
		return NewPortAudio(), nil
	case "null":
		return NewNull(NullOptions{Config: cfg, Realtime: true}), nil
	}
	return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownBackend, backend, strings.Join(Backends, ", "))
}
