// ABOUTME: Adapter running one go-audio-resampler engine per channel
// ABOUTME: Deinterleaves batches, resamples each plane and reinterleaves the result
package resample

import (
	"fmt"

	resampler "github.com/tphakala/go-audio-resampler"
	"github.com/sirupsen/logrus"
)

var qualityPresets = map[string]resampler.QualityPreset{
	"quick":    resampler.QualityQuick,
	"low":      resampler.QualityLow,
	"medium":   resampler.QualityMedium,
	"high":     resampler.QualityHigh,
	"veryhigh": resampler.QualityVeryHigh,
}

type soxrEngine struct {
	channels []*resampler.SimpleResamplerFloat32
	plane    []float32
	outs     [][]float32
}

func newSoxrEngine(cfg Config) (*soxrEngine, error) {
	preset, ok := qualityPresets[cfg.Quality]
	if !ok {
		return nil, fmt.Errorf("%w: quality %q", ErrInvalidConfig, cfg.Quality)
	}

	e := &soxrEngine{
		channels: make([]*resampler.SimpleResamplerFloat32, cfg.Channels),
		outs:     make([][]float32, cfg.Channels),
	}
	for ch := range e.channels {
		r, err := resampler.NewEngineFloat32(float64(cfg.SourceRate), float64(cfg.TargetRate), preset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngine, err)
		}
		e.channels[ch] = r
	}
	return e, nil
}

func (e *soxrEngine) push(out, batch []float32) []float32 {
	nch := len(e.channels)
	frames := len(batch) / nch
	if frames == 0 {
		return out
	}
	if cap(e.plane) < frames {
		e.plane = make([]float32, frames)
	}
	e.plane = e.plane[:frames]

	for ch, r := range e.channels {
		for i := range e.plane {
			e.plane[i] = batch[i*nch+ch]
		}
		res, err := r.Process(e.plane)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "push",
				"channel":  ch,
				"error":    err,
			}).Warn("Resampling engine rejected batch")
			res = nil
		}
		e.outs[ch] = res
	}
	return e.interleave(out)
}

func (e *soxrEngine) flush(out []float32) []float32 {
	for ch, r := range e.channels {
		res, err := r.Flush()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "flush",
				"channel":  ch,
				"error":    err,
			}).Warn("Resampling engine flush failed")
			res = nil
		}
		e.outs[ch] = res
	}
	return e.interleave(out)
}

// interleave writes as many frames as every channel produced
func (e *soxrEngine) interleave(out []float32) []float32 {
	frames := len(e.outs[0])
	for _, o := range e.outs[1:] {
		frames = min(frames, len(o))
	}
	for i := 0; i < frames; i++ {
		for ch := range e.outs {
			out = append(out, e.outs[ch][i])
		}
	}
	return out
}

func (e *soxrEngine) reset() {
	for _, r := range e.channels {
		r.Reset()
	}
}
