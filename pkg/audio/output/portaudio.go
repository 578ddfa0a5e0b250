//go:build portaudio

// ABOUTME: PortAudio output platform
// ABOUTME: Cross-platform float32 output; the callback renders into a byte scratch buffer
package output

import (
	"fmt"
	"sync"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

const (
	portAudioFramesPerBuffer = 1024
	portAudioMaxChannels     = 2
)

// PortAudio output platform
type PortAudio struct {
	mu          sync.Mutex
	initialized bool
	device      *portaudio.DeviceInfo
	log         *logrus.Entry
}

// NewPortAudio creates a new PortAudio platform
func NewPortAudio() Platform {
	return &PortAudio{log: logrus.WithField("backend", "portaudio")}
}

// Name returns the backend name
func (p *PortAudio) Name() string { return "portaudio" }

func (p *PortAudio) init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	p.initialized = true
	return nil
}

// DefaultDevice returns PortAudio's default output device. PortAudio has no
// default channel layout, so stereo is used when the device allows it.
func (p *PortAudio) DefaultDevice() (Device, error) {
	if err := p.init(); err != nil {
		return Device{}, err
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil || dev == nil {
		return Device{}, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	p.mu.Lock()
	p.device = dev
	p.mu.Unlock()

	return Device{
		ID:      dev.Name,
		Name:    dev.Name,
		Backend: p.Name(),
		Config: audio.StreamConfig{
			SampleRate: int(dev.DefaultSampleRate),
			Channels:   min(dev.MaxOutputChannels, portAudioMaxChannels),
			Format:     audio.FormatFloat32,
		},
	}, nil
}

// Register opens a float32 stream on the default device
func (p *PortAudio) Register(dev Device, cfg audio.StreamConfig, cb Callback, onFault FaultFunc) (Stream, error) {
	if cfg.Format != audio.FormatFloat32 {
		return nil, fmt.Errorf("%w: %s on portaudio", audio.ErrUnsupportedFormat, cfg.Format)
	}
	enc, err := audio.EncoderFor(cfg.Format)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	info := p.device
	p.mu.Unlock()
	if info == nil {
		return nil, ErrNoDevice
	}

	params := portaudio.LowLatencyParameters(nil, info)
	params.Output.Channels = cfg.Channels
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = portAudioFramesPerBuffer

	scratch := make([]byte, cfg.BufferBytes(portAudioFramesPerBuffer))
	callback := func(out []float32) {
		for len(out) > 0 {
			chunk := scratch[:min(len(scratch), len(out)*enc.Size())]
			cb(chunk)
			out = out[enc.Decode(out, chunk):]
		}
	}

	stream, err := portaudio.OpenStream(params, callback)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"function": "Register",
		"device":   dev.Name,
		"config":   cfg.String(),
	}).Info("PortAudio stream opened")

	return &portAudioStream{stream: stream}, nil
}

// Close terminates PortAudio
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

type portAudioStream struct {
	stream *portaudio.Stream
	once   sync.Once
	err    error
}

func (s *portAudioStream) Start() error {
	return s.stream.Start()
}

// Close stops the stream; Stop returns after pending buffers have played
func (s *portAudioStream) Close() error {
	s.once.Do(func() {
		if err := s.stream.Stop(); err != nil {
			s.err = err
		}
		if err := s.stream.Close(); err != nil && s.err == nil {
			s.err = err
		}
	})
	return s.err
}
