// ABOUTME: Malgo-based output platform using miniaudio
// ABOUTME: Queries the default playback device's native format and drives its data callback
package output

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
)

// miniaudio reports 0 / FormatUnknown for "any"; these are used in that case
const (
	malgoAnyRate     = 48000
	malgoAnyChannels = 2
)

// Malgo output platform using malgo/miniaudio library
type Malgo struct {
	malgoCtx *malgo.AllocatedContext
	mu       sync.Mutex
	log      *logrus.Entry
}

// NewMalgo creates a new Malgo platform. The miniaudio context is created
// on first use.
func NewMalgo() *Malgo {
	return &Malgo{log: logrus.WithField("backend", "malgo")}
}

// Name returns the backend name
func (m *Malgo) Name() string { return "malgo" }

func (m *Malgo) context() (*malgo.AllocatedContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}
	return m.malgoCtx, nil
}

// DefaultDevice returns the playback device miniaudio flags as default
func (m *Malgo) DefaultDevice() (Device, error) {
	ctx, err := m.context()
	if err != nil {
		return Device{}, err
	}

	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return Device{}, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	var chosen *malgo.DeviceInfo
	for i := range infos {
		if infos[i].IsDefault != 0 {
			chosen = &infos[i]
			break
		}
	}
	if chosen == nil {
		return Device{}, fmt.Errorf("%w: %d playback devices, none marked default", ErrNoDevice, len(infos))
	}

	full, err := ctx.DeviceInfo(malgo.Playback, chosen.ID, malgo.Shared)
	if err != nil {
		return Device{}, fmt.Errorf("%w: %v", ErrNoConfig, err)
	}
	if len(full.Formats) == 0 {
		return Device{}, fmt.Errorf("%w: %s lists no native formats", ErrNoConfig, chosen.Name())
	}

	cfg, err := configFromMalgo(full.Formats[0])
	if err != nil {
		return Device{}, err
	}

	m.log.WithFields(logrus.Fields{
		"function": "DefaultDevice",
		"device":   chosen.Name(),
		"formats":  len(full.Formats),
		"config":   cfg.String(),
	}).Debug("Default device found")

	return Device{
		ID:      chosen.ID.String(),
		Name:    chosen.Name(),
		Backend: m.Name(),
		Config:  cfg,
	}, nil
}

// configFromMalgo converts the device's first native format
func configFromMalgo(df malgo.DataFormat) (audio.StreamConfig, error) {
	format, err := fromMalgoFormat(df.Format)
	if err != nil {
		return audio.StreamConfig{}, err
	}
	cfg := audio.StreamConfig{
		SampleRate: int(df.SampleRate),
		Channels:   int(df.Channels),
		Format:     format,
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = malgoAnyRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = malgoAnyChannels
	}
	return cfg, nil
}

func fromMalgoFormat(f malgo.FormatType) (audio.SampleFormat, error) {
	switch f {
	case malgo.FormatU8:
		return audio.FormatUInt8, nil
	case malgo.FormatS16:
		return audio.FormatInt16, nil
	case malgo.FormatS32:
		return audio.FormatInt32, nil
	case malgo.FormatF32, malgo.FormatUnknown:
		return audio.FormatFloat32, nil
	}
	return audio.FormatUnknown, fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, formatName(f))
}

func toMalgoFormat(f audio.SampleFormat) (malgo.FormatType, error) {
	switch f {
	case audio.FormatUInt8:
		return malgo.FormatU8, nil
	case audio.FormatInt16:
		return malgo.FormatS16, nil
	case audio.FormatInt32:
		return malgo.FormatS32, nil
	case audio.FormatFloat32:
		return malgo.FormatF32, nil
	}
	return malgo.FormatUnknown, fmt.Errorf("%w: %s on malgo", audio.ErrUnsupportedFormat, f)
}

// Register initializes the device with cfg and wires cb as its data callback
func (m *Malgo) Register(dev Device, cfg audio.StreamConfig, cb Callback, onFault FaultFunc) (Stream, error) {
	ctx, err := m.context()
	if err != nil {
		return nil, err
	}
	format, err := toMalgoFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	s := &malgoStream{log: m.log.WithField("device", dev.Name)}
	frameSize := cfg.FrameSize()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.Alsa.NoMMap = 1
	// a nil Playback.DeviceID selects the same default device DefaultDevice reported

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, _ []byte, frameCount uint32) {
			n := int(frameCount) * frameSize
			if n > len(pOutputSample) {
				n = len(pOutputSample)
			}
			cb(pOutputSample[:n])
		},
		Stop: func() {
			if s.closing.Load() || onFault == nil {
				return
			}
			onFault(ErrDeviceStopped)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	s.device = device

	m.log.WithFields(logrus.Fields{
		"function": "Register",
		"device":   dev.Name,
		"config":   cfg.String(),
		"format":   formatName(format),
	}).Info("Playback device initialized")

	return s, nil
}

// Close releases the miniaudio context
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			m.log.WithField("error", err).Warn("malgo context uninit error")
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

type malgoStream struct {
	device  *malgo.Device
	closing atomic.Bool
	once    sync.Once
	log     *logrus.Entry
}

func (s *malgoStream) Start() error {
	if s.closing.Load() {
		return ErrStreamClosed
	}
	if err := s.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

// Close stops the device; miniaudio waits for the running callback
func (s *malgoStream) Close() error {
	s.once.Do(func() {
		s.closing.Store(true)
		if err := s.device.Stop(); err != nil {
			s.log.WithField("error", err).Warn("Device stop error")
		}
		s.device.Uninit()
	})
	return nil
}

// formatName returns human-readable format name
func formatName(format malgo.FormatType) string {
	switch format {
	case malgo.FormatU8:
		return "U8"
	case malgo.FormatS16:
		return "S16"
	case malgo.FormatS24:
		return "S24"
	case malgo.FormatS32:
		return "S32"
	case malgo.FormatF32:
		return "F32"
	default:
		return fmt.Sprintf("Unknown(%d)", format)
	}
}
