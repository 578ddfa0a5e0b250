// ABOUTME: High-level Player API for local file playback
// ABOUTME: Negotiates the device, builds decode/resample/render and owns the session lifecycle
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/decode"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/output"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/render"
	"github.com/Resonate-Protocol/resonate-play/pkg/audio/resample"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	monitorInterval = 20 * time.Millisecond

	// drainTimeout bounds the wait for the device to consume the final buffer
	drainTimeout = time.Second
)

// State describes the player lifecycle
type State int

const (
	StateReady State = iota
	StatePlaying
	StateFinished
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Player plays one file to one device
type Player struct {
	cfg Config
	id  string
	log *logrus.Entry

	platform     output.Platform
	ownsPlatform bool
	device       output.Device
	devCfg       audio.StreamConfig

	session   *decode.Session
	resampler *resample.Resampler
	chain     *render.Chain
	ring      *render.Ring
	producer  *render.Producer
	renderer  *render.Renderer
	stream    output.Stream

	ctx    context.Context
	cancel context.CancelFunc
	faults chan error

	mu        sync.Mutex
	state     State
	producing bool
	err       error
	started   time.Time
	done      chan struct{}
	once      sync.Once
}

// Open negotiates the output device and prepares the full pipeline for
// cfg.Path. No callback is registered until Play.
func Open(cfg Config) (*Player, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Player{
		cfg:    cfg,
		id:     uuid.New().String(),
		faults: make(chan error, 1),
		done:   make(chan struct{}),
	}
	p.log = cfg.Logger.WithField("session", p.id)
	p.ctx, p.cancel = context.WithCancel(context.Background())

	if err := p.setup(); err != nil {
		p.release()
		p.cancel()
		p.log.WithFields(logrus.Fields{
			"function": "Open",
			"path":     cfg.Path,
			"error":    err,
		}).Error("Player setup failed")
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"function": "Open",
		"path":     cfg.Path,
		"codec":    p.session.Codec(),
		"source":   fmt.Sprintf("%dHz/%dch", p.session.SampleRate(), p.session.Channels()),
		"device":   p.devCfg.String(),
		"mode":     cfg.Mode.String(),
	}).Info("Player ready")

	return p, nil
}

func (p *Player) setup() error {
	cfg := p.cfg

	p.platform = cfg.Platform
	if p.platform == nil {
		platform, err := output.Open(cfg.Backend, cfg.Request)
		if err != nil {
			return setupErr(StagePlatform, err)
		}
		p.platform = platform
		p.ownsPlatform = true
	}

	dev, devCfg, err := output.Negotiate(p.platform)
	if err != nil {
		return setupErr(StageDevice, err)
	}
	p.device, p.devCfg = dev, devCfg

	session, err := decode.Open(cfg.Path,
		decode.WithMaxConsecutiveSkips(cfg.MaxConsecutiveSkips),
		decode.WithLogger(p.log),
	)
	if err != nil {
		return setupErr(StageDecoder, err)
	}
	p.session = session

	rs, err := resample.New(resample.Config{
		SourceRate:  session.SampleRate(),
		TargetRate:  devCfg.SampleRate,
		Channels:    session.Channels(),
		BatchFrames: cfg.BatchFrames,
		Engine:      cfg.Engine,
		Quality:     cfg.Quality,
	})
	if err != nil {
		return setupErr(StageResampler, err)
	}
	p.resampler = rs

	chain, err := render.NewChain(session, rs, cfg.ChunkFrames)
	if err != nil {
		return setupErr(StageRenderer, err)
	}
	p.chain = chain

	var reader render.FrameReader = chain
	if cfg.Mode == ModeBuffered {
		ring, err := render.NewRing(devCfg.FramesFor(time.Duration(cfg.BufferMs)*time.Millisecond), session.Channels())
		if err != nil {
			return setupErr(StageRenderer, err)
		}
		p.ring = ring
		p.producer = render.NewProducer(chain, ring, cfg.ChunkFrames, 0)
		reader = ring
	}

	renderer, err := render.NewRenderer(reader, session.Channels(), devCfg, render.Options{
		StrictChannels: cfg.StrictChannels,
	})
	if err != nil {
		return setupErr(StageRenderer, err)
	}
	p.renderer = renderer
	return nil
}

// ID returns the session identifier used in logs and stats
func (p *Player) ID() string { return p.id }

// DeviceConfig returns the negotiated device configuration
func (p *Player) DeviceConfig() audio.StreamConfig { return p.devCfg }

// State returns the current lifecycle state
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play registers the render callback and starts the device. It returns once
// playback has begun; use Wait to block until the file has been played.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.state != StateReady {
		state := p.state
		p.mu.Unlock()
		return fmt.Errorf("%w: play while %s", ErrState, state)
	}
	p.state = StatePlaying
	p.started = time.Now()
	p.mu.Unlock()

	if p.producer != nil {
		p.producer.Prime()
		p.producer.Start(p.ctx)
		p.mu.Lock()
		p.producing = true
		p.mu.Unlock()
	}

	stream, err := p.platform.Register(p.device, p.devCfg, p.renderer.Render, p.onFault)
	if err != nil {
		err = setupErr(StageRegister, err)
		p.finish(StateFailed, err)
		return err
	}
	p.mu.Lock()
	p.stream = stream
	p.mu.Unlock()

	if err := stream.Start(); err != nil {
		err = setupErr(StageStart, err)
		p.finish(StateFailed, err)
		return err
	}

	p.log.WithFields(logrus.Fields{
		"function": "Play",
		"device":   p.device.Name,
	}).Info("Playback started")

	go p.monitor()
	return nil
}

// onFault runs on the platform's thread and must not block
func (p *Player) onFault(err error) {
	select {
	case p.faults <- err:
	default:
	}
}

// monitor ends the session on platform fault or once the stream has drained
func (p *Player) monitor() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	var (
		draining   bool
		drainStart time.Time
		lastCall   uint64
	)
	for {
		select {
		case <-p.ctx.Done():
			return
		case err := <-p.faults:
			p.finish(StateFailed, fmt.Errorf("%w: %w", ErrPlatformFault, err))
			return
		case <-ticker.C:
			c := p.renderer.Counters()
			if !c.Ended {
				continue
			}
			if !draining {
				draining, drainStart, lastCall = true, time.Now(), c.Callbacks
				continue
			}
			// one more callback means the final data buffer was handed over
			if c.Callbacks > lastCall || time.Since(drainStart) > drainTimeout {
				p.finish(StateFinished, nil)
				return
			}
		}
	}
}

// Wait blocks until playback finishes, fails or the player is closed
func (p *Player) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the session has been torn down
func (p *Player) Done() <-chan struct{} { return p.done }

// Close stops playback and releases the device. It is safe to call more
// than once.
func (p *Player) Close() error {
	p.finish(StateClosed, nil)
	return nil
}

// finish tears the session down exactly once
func (p *Player) finish(state State, err error) {
	p.once.Do(func() {
		p.cancel()

		p.mu.Lock()
		p.state = state
		p.err = err
		p.mu.Unlock()

		p.release()

		entry := p.log.WithFields(logrus.Fields{
			"function": "finish",
			"state":    state.String(),
		})
		if err != nil {
			entry.WithField("error", err).Error("Playback ended with error")
		} else {
			stats := p.Stats()
			entry.WithFields(logrus.Fields{
				"frames":    stats.RenderedFrames,
				"skipped":   stats.SkippedFrames,
				"underruns": stats.Underruns,
				"faults":    stats.Faults,
			}).Info("Playback ended")
		}
		close(p.done)
	})
}

// release closes the stream first so no callback outlives the pipeline
func (p *Player) release() {
	p.mu.Lock()
	stream := p.stream
	p.mu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			p.log.WithField("error", err).Warn("Stream close error")
		}
	}
	p.mu.Lock()
	producing := p.producing
	p.mu.Unlock()
	if producing {
		select {
		case <-p.producer.Done():
		case <-time.After(drainTimeout):
			p.log.Warn("Producer did not stop in time")
		}
	}
	if p.session != nil {
		if err := p.session.Close(); err != nil {
			p.log.WithField("error", err).Warn("Decoder close error")
		}
	}
	if p.platform != nil && p.ownsPlatform {
		if err := p.platform.Close(); err != nil {
			p.log.WithField("error", err).Warn("Platform close error")
		}
	}
}
