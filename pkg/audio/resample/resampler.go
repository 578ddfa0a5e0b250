// ABOUTME: Fixed-input-batch windowed-sinc resampler
// ABOUTME: Converts interleaved frames between sample rates, with an exact pass-through when rates match
package resample

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/tphakala/simd/f64"
)

const (
	DefaultBatchFrames = 1024
	DefaultHalfTaps    = 16
	DefaultBeta        = 8.6
)

// Engine selects the interpolation implementation
type Engine int

const (
	// EngineSinc is the built-in Kaiser-windowed sinc interpolator
	EngineSinc Engine = iota
	// EngineSoxr uses github.com/tphakala/go-audio-resampler
	EngineSoxr
)

func (e Engine) String() string {
	switch e {
	case EngineSinc:
		return "sinc"
	case EngineSoxr:
		return "soxr"
	}
	return fmt.Sprintf("Engine(%d)", int(e))
}

// ParseEngine maps a name to an Engine
func ParseEngine(name string) (Engine, error) {
	switch name {
	case "", "sinc":
		return EngineSinc, nil
	case "soxr":
		return EngineSoxr, nil
	}
	return 0, fmt.Errorf("%w: engine %q", ErrInvalidConfig, name)
}

// Config holds resampler configuration
type Config struct {
	SourceRate int
	TargetRate int
	Channels   int

	// BatchFrames is the fixed number of input frames filtered per step
	BatchFrames int

	// HalfTaps is the number of sinc zero crossings on each side of the center
	HalfTaps int

	// Beta is the Kaiser window shape; higher means more stopband attenuation
	Beta float64

	Engine Engine

	// Quality applies to EngineSoxr: quick, low, medium, high or veryhigh
	Quality string
}

func (c Config) withDefaults() Config {
	if c.BatchFrames <= 0 {
		c.BatchFrames = DefaultBatchFrames
	}
	if c.HalfTaps <= 0 {
		c.HalfTaps = DefaultHalfTaps
	}
	if c.Beta <= 0 {
		c.Beta = DefaultBeta
	}
	if c.Quality == "" {
		c.Quality = "medium"
	}
	return c
}

// Validate checks rates and channel count
func (c Config) Validate() error {
	if c.SourceRate <= 0 || c.TargetRate <= 0 {
		return fmt.Errorf("%w: rates %d -> %d", ErrInvalidConfig, c.SourceRate, c.TargetRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrInvalidConfig, c.Channels)
	}
	return nil
}

// Resampler converts interleaved float32 frames from SourceRate to TargetRate.
// Output frame j is the band-limited value of the input at time
// j·SourceRate/TargetRate, so ordering is preserved and N input frames yield
// ceil(N·TargetRate/SourceRate) output frames once flushed.
type Resampler struct {
	cfg         Config
	passthrough bool

	// sinc state
	kernel    *kernel
	cutoff    float64
	halfWidth int64
	planes    [][]float64
	histStart int64
	inCount   int64
	nextOut   int64
	weights   []float64

	soxr *soxrEngine

	pending []float32
	out     []float32
	flushed bool
}

// Configure creates a resampler with default filter settings
func Configure(sourceRate, targetRate, channels int) (*Resampler, error) {
	return New(Config{SourceRate: sourceRate, TargetRate: targetRate, Channels: channels})
}

// New creates a resampler from cfg
func New(cfg Config) (*Resampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	r := &Resampler{
		cfg:         cfg,
		passthrough: cfg.SourceRate == cfg.TargetRate,
	}

	switch {
	case r.passthrough:
	case cfg.Engine == EngineSoxr:
		engine, err := newSoxrEngine(cfg)
		if err != nil {
			return nil, err
		}
		r.soxr = engine
	case cfg.Engine == EngineSinc:
		r.initSinc()
	default:
		return nil, fmt.Errorf("%w: engine %s", ErrInvalidConfig, cfg.Engine)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "New",
		"source_rate": cfg.SourceRate,
		"target_rate": cfg.TargetRate,
		"channels":    cfg.Channels,
		"batch":       cfg.BatchFrames,
		"engine":      cfg.Engine.String(),
		"passthrough": r.passthrough,
	}).Info("Resampler configured")

	return r, nil
}

func (r *Resampler) initSinc() {
	r.cutoff = math.Min(1, float64(r.cfg.TargetRate)/float64(r.cfg.SourceRate))
	r.halfWidth = int64(math.Ceil(float64(r.cfg.HalfTaps) / r.cutoff))
	r.kernel = newKernel(r.cfg.HalfTaps, r.cfg.Beta)
	r.weights = make([]float64, 2*r.halfWidth)
	r.planes = make([][]float64, r.cfg.Channels)
	for ch := range r.planes {
		r.planes[ch] = make([]float64, 0, int64(r.cfg.BatchFrames)+2*r.halfWidth)
	}
}

// Config returns the effective configuration
func (r *Resampler) Config() Config { return r.cfg }

// Passthrough reports whether rates match and samples are copied unchanged
func (r *Resampler) Passthrough() bool { return r.passthrough }

// Ratio returns TargetRate / SourceRate
func (r *Resampler) Ratio() float64 {
	return float64(r.cfg.TargetRate) / float64(r.cfg.SourceRate)
}

// OutputFrames returns the output produced by inputFrames once flushed
func (r *Resampler) OutputFrames(inputFrames int) int {
	num := int64(inputFrames) * int64(r.cfg.TargetRate)
	den := int64(r.cfg.SourceRate)
	return int((num + den - 1) / den)
}

// InputFrames returns the input needed to produce outputFrames
func (r *Resampler) InputFrames(outputFrames int) int {
	num := int64(outputFrames) * int64(r.cfg.SourceRate)
	den := int64(r.cfg.TargetRate)
	return int((num + den - 1) / den)
}

// Push feeds interleaved input frames and returns whatever output complete
// batches produce. The returned slice is only valid until the next call.
func (r *Resampler) Push(frames []float32) []float32 {
	ch := r.cfg.Channels
	frames = frames[:len(frames)-len(frames)%ch]
	r.out = r.out[:0]

	if r.passthrough {
		r.out = append(r.out, frames...)
		return r.out
	}
	if r.flushed || len(frames) == 0 {
		return r.out
	}

	r.pending = append(r.pending, frames...)
	batch := r.cfg.BatchFrames * ch
	consumed := 0
	for len(r.pending)-consumed >= batch {
		r.process(r.pending[consumed:consumed+batch], false)
		consumed += batch
	}
	if consumed > 0 {
		n := copy(r.pending, r.pending[consumed:])
		r.pending = r.pending[:n]
	}
	return r.out
}

// Flush filters any held partial batch and the trailing filter tail.
// Later Pushes return nothing until Reset.
func (r *Resampler) Flush() []float32 {
	r.out = r.out[:0]
	if r.passthrough || r.flushed {
		return r.out
	}
	r.flushed = true
	r.process(r.pending, true)
	r.pending = r.pending[:0]
	return r.out
}

// Reset clears all state so the resampler can start a new stream
func (r *Resampler) Reset() {
	r.pending = r.pending[:0]
	r.out = r.out[:0]
	r.flushed = false
	r.histStart, r.inCount, r.nextOut = 0, 0, 0
	for ch := range r.planes {
		r.planes[ch] = r.planes[ch][:0]
	}
	if r.soxr != nil {
		r.soxr.reset()
	}
}

func (r *Resampler) process(batch []float32, final bool) {
	if r.soxr != nil {
		r.out = r.soxr.push(r.out, batch)
		if final {
			r.out = r.soxr.flush(r.out)
		}
		return
	}
	r.appendInput(batch)
	r.produce(final)
	r.trimHistory()
}

func (r *Resampler) appendInput(batch []float32) {
	ch := r.cfg.Channels
	frames := len(batch) / ch
	for c := 0; c < ch; c++ {
		plane := r.planes[c]
		for i := 0; i < frames; i++ {
			plane = append(plane, float64(batch[i*ch+c]))
		}
		r.planes[c] = plane
	}
	r.inCount += int64(frames)
}

// produce emits every output frame whose filter support is available. When
// final is set, missing input past the end is treated as silence.
func (r *Resampler) produce(final bool) {
	src := int64(r.cfg.SourceRate)
	dst := int64(r.cfg.TargetRate)

	for {
		pos := r.nextOut * src
		center := pos / dst
		if final {
			if pos >= r.inCount*dst {
				return
			}
		} else if center+r.halfWidth >= r.inCount {
			return
		}
		frac := float64(pos%dst) / float64(dst)

		lo := center - r.halfWidth + 1
		hi := center + r.halfWidth
		for k := lo; k <= hi; k++ {
			d := float64(center-k) + frac
			r.weights[k-lo] = r.cutoff * r.kernel.at(r.cutoff*d)
		}
		if sum := f64.Sum(r.weights); sum != 0 {
			f64.Scale(r.weights, r.weights, 1/sum)
		}

		kStart := max(lo, 0)
		kEnd := min(hi, r.inCount-1)
		w := r.weights[kStart-lo : kEnd-lo+1]
		for c := range r.planes {
			plane := r.planes[c][kStart-r.histStart : kEnd-r.histStart+1]
			r.out = append(r.out, float32(f64.DotProduct(w, plane)))
		}
		r.nextOut++
	}
}

// trimHistory drops input no future output frame can reach
func (r *Resampler) trimHistory() {
	next := r.nextOut * int64(r.cfg.SourceRate) / int64(r.cfg.TargetRate)
	keepFrom := next - r.halfWidth + 1
	if keepFrom <= r.histStart {
		return
	}
	keepFrom = min(keepFrom, r.inCount)
	drop := keepFrom - r.histStart
	for c := range r.planes {
		n := copy(r.planes[c], r.planes[c][drop:])
		r.planes[c] = r.planes[c][:n]
	}
	r.histStart = keepFrom
}
