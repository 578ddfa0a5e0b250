// ABOUTME: Oto-based output platform
// ABOUTME: Oto pulls bytes through an io.Reader, which here invokes the render callback
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
)

// DefaultOtoConfig is used when no configuration is requested; oto cannot
// query the hardware
var DefaultOtoConfig = audio.StreamConfig{SampleRate: 48000, Channels: 2, Format: audio.FormatInt16}

const otoErrPoll = 100 * time.Millisecond

// Oto output platform using oto library. Oto allows one context per
// process, so the configuration is fixed at the first Register.
type Oto struct {
	cfg    audio.StreamConfig
	otoCtx *oto.Context
	ctxCfg audio.StreamConfig
	mu     sync.Mutex
	log    *logrus.Entry
}

// NewOto creates an Oto platform that reports cfg as its device default
func NewOto(cfg audio.StreamConfig) *Oto {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultOtoConfig.SampleRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = DefaultOtoConfig.Channels
	}
	if cfg.Format == audio.FormatUnknown {
		cfg.Format = DefaultOtoConfig.Format
	}
	return &Oto{cfg: cfg, log: logrus.WithField("backend", "oto")}
}

// Name returns the backend name
func (o *Oto) Name() string { return "oto" }

// DefaultDevice returns the single device oto exposes
func (o *Oto) DefaultDevice() (Device, error) {
	return Device{
		ID:      "default",
		Name:    "oto default output",
		Backend: o.Name(),
		Config:  o.cfg,
	}, nil
}

func toOtoFormat(f audio.SampleFormat) (oto.Format, error) {
	switch f {
	case audio.FormatInt16:
		return oto.FormatSignedInt16LE, nil
	case audio.FormatFloat32:
		return oto.FormatFloat32LE, nil
	case audio.FormatUInt8:
		return oto.FormatUnsignedInt8, nil
	}
	return 0, fmt.Errorf("%w: %s on oto (supported: i16, f32, u8)", audio.ErrUnsupportedFormat, f)
}

func (o *Oto) context(cfg audio.StreamConfig) (*oto.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if o.ctxCfg != cfg {
			return nil, fmt.Errorf("oto context already running %s, cannot switch to %s", o.ctxCfg, cfg)
		}
		return o.otoCtx, nil
	}

	format, err := toOtoFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	op := &oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       format,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.ctxCfg = cfg
	return ctx, nil
}

// Register starts a persistent oto player whose reads invoke cb
func (o *Oto) Register(dev Device, cfg audio.StreamConfig, cb Callback, onFault FaultFunc) (Stream, error) {
	if _, err := toOtoFormat(cfg.Format); err != nil {
		return nil, err
	}
	ctx, err := o.context(cfg)
	if err != nil {
		return nil, err
	}

	reader := &callbackReader{cb: cb, frameSize: cfg.FrameSize()}
	s := &otoStream{
		reader:  reader,
		player:  ctx.NewPlayer(reader),
		ctx:     ctx,
		onFault: onFault,
		stop:    make(chan struct{}),
		log:     o.log,
	}

	o.log.WithFields(logrus.Fields{
		"function": "Register",
		"device":   dev.Name,
		"config":   cfg.String(),
	}).Info("Audio output initialized")

	return s, nil
}

// Close suspends the oto context; oto cannot be torn down and recreated
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			o.log.WithField("error", err).Warn("oto suspend error")
		}
	}
	return nil
}

// callbackReader adapts a Callback to the io.Reader oto pulls from
type callbackReader struct {
	cb        Callback
	frameSize int
	mu        sync.Mutex
	closed    bool
}

func (r *callbackReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, io.EOF
	}
	n := len(p) - len(p)%r.frameSize
	if n == 0 {
		return 0, nil
	}
	r.cb(p[:n])
	return n, nil
}

// close waits for an in-flight Read and stops further callbacks
func (r *callbackReader) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

type otoStream struct {
	reader  *callbackReader
	player  *oto.Player
	ctx     *oto.Context
	onFault FaultFunc
	stop    chan struct{}
	once    sync.Once
	log     *logrus.Entry
}

func (s *otoStream) Start() error {
	select {
	case <-s.stop:
		return ErrStreamClosed
	default:
	}
	s.player.Play()
	go s.watch()
	return nil
}

// watch reports asynchronous oto errors as faults
func (s *otoStream) watch() {
	ticker := time.NewTicker(otoErrPoll)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			err := s.player.Err()
			if err == nil {
				err = s.ctx.Err()
			}
			if err != nil {
				s.log.WithField("error", err).Error("oto playback failed")
				if s.onFault != nil {
					s.onFault(fmt.Errorf("%w: %v", ErrDeviceStopped, err))
				}
				return
			}
		}
	}
}

func (s *otoStream) Close() error {
	s.once.Do(func() {
		close(s.stop)
		s.reader.close()
		if err := s.player.Close(); err != nil {
			s.log.WithField("error", err).Warn("oto player close error")
		}
	})
	return nil
}
