// ABOUTME: Real-time render callback filling device buffers from a FrameReader
// ABOUTME: Maps channels, encodes to the device format and pads with silence; never blocks or allocates
package render

import (
	"fmt"
	"sync/atomic"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
)

// DefaultMaxFrames sizes the scratch buffer; larger callbacks are rendered
// in several passes
const DefaultMaxFrames = 4096

// Options tune a Renderer
type Options struct {
	// StrictChannels rejects a source whose channel count differs from the
	// device instead of duplicating or truncating channels
	StrictChannels bool

	MaxFrames int
}

// Counters is a snapshot of render activity
type Counters struct {
	Callbacks    uint64
	Frames       uint64 // frames rendered from source data
	SilentFrames uint64
	Underruns    uint64
	Faults       uint64
	Ended        bool
}

// Renderer fills device buffers. Render is the only method meant for the
// audio thread; everything else is setup or monitoring.
type Renderer struct {
	src        FrameReader
	enc        audio.Encoder
	cfg        audio.StreamConfig
	srcCh      int
	frameBytes int
	scratch    []float32
	chunk      int

	ended     atomic.Bool
	callbacks atomic.Uint64
	frames    atomic.Uint64
	silent    atomic.Uint64
	underruns atomic.Uint64
	faults    atomic.Uint64
}

// NewRenderer prepares a renderer for a device running cfg, fed by src frames
// of srcChannels channels. Every failure is reported here, before any
// callback can run.
func NewRenderer(src FrameReader, srcChannels int, cfg audio.StreamConfig, opts Options) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := audio.EncoderFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	if srcChannels <= 0 {
		return nil, fmt.Errorf("%w: source has %d channels", ErrInvalidConfig, srcChannels)
	}
	if opts.StrictChannels && srcChannels != cfg.Channels {
		return nil, fmt.Errorf("%w: source %d, device %d", ErrChannelMismatch, srcChannels, cfg.Channels)
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = DefaultMaxFrames
	}

	return &Renderer{
		src:        src,
		enc:        enc,
		cfg:        cfg,
		srcCh:      srcChannels,
		frameBytes: cfg.FrameSize(),
		scratch:    make([]float32, opts.MaxFrames*srcChannels),
		chunk:      opts.MaxFrames,
	}, nil
}

// Config returns the device configuration being rendered
func (r *Renderer) Config() audio.StreamConfig { return r.cfg }

// Ended reports whether the source has been fully rendered
func (r *Renderer) Ended() bool { return r.ended.Load() }

// Counters returns a snapshot of the render counters
func (r *Renderer) Counters() Counters {
	return Counters{
		Callbacks:    r.callbacks.Load(),
		Frames:       r.frames.Load(),
		SilentFrames: r.silent.Load(),
		Underruns:    r.underruns.Load(),
		Faults:       r.faults.Load(),
		Ended:        r.ended.Load(),
	}
}

// Render fills all of out with device-native samples. After the source ends
// and whenever it cannot keep up, the remainder is silence.
func (r *Renderer) Render(out []byte) {
	r.callbacks.Add(1)
	defer func() {
		if rec := recover(); rec != nil {
			r.faults.Add(1)
			r.enc.Silence(out)
		}
	}()

	total := len(out) / r.frameBytes
	done := 0
	for done < total && !r.ended.Load() {
		want := min(total-done, r.chunk)
		n, eof := r.src.ReadFrames(r.scratch[:want*r.srcCh])
		got := n / r.srcCh
		r.mapFrames(out[done*r.frameBytes:], got)
		done += got
		r.frames.Add(uint64(got))

		if eof {
			r.ended.Store(true)
			break
		}
		if got < want {
			r.underruns.Add(1)
			break
		}
	}

	if rest := out[done*r.frameBytes:]; len(rest) > 0 {
		r.enc.Silence(rest)
		r.silent.Add(uint64(total - done))
	}
}

// mapFrames encodes frames from scratch into dst, duplicating source channels
// cyclically when the device has more and dropping extras when it has fewer
func (r *Renderer) mapFrames(dst []byte, frames int) {
	if r.srcCh == r.cfg.Channels {
		r.enc.Encode(dst, r.scratch[:frames*r.srcCh])
		return
	}

	size := r.enc.Size()
	off := 0
	for f := 0; f < frames; f++ {
		frame := r.scratch[f*r.srcCh : (f+1)*r.srcCh]
		for c := 0; c < r.cfg.Channels; c++ {
			r.enc.Put(dst[off:], frame[c%r.srcCh])
			off += size
		}
	}
}
