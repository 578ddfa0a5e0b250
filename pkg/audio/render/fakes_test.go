// ABOUTME: Test doubles for the render package
// ABOUTME: In-memory sources and readers with scripted behaviour
package render

// sliceSource serves a fixed buffer of interleaved samples
type sliceSource struct {
	data     []float32
	channels int
	pos      int
}

func (s *sliceSource) Channels() int { return s.channels }

func (s *sliceSource) ReadFrames(dst []float32) int {
	n := copy(dst[:len(dst)-len(dst)%s.channels], s.data[s.pos:])
	n -= n % s.channels
	s.pos += n
	return n
}

// scriptedReader returns one step per call
type scriptedReader struct {
	steps []step
	calls int
}

type step struct {
	samples []float32
	eof     bool
	panics  bool
}

func (r *scriptedReader) ReadFrames(dst []float32) (int, bool) {
	if r.calls >= len(r.steps) {
		return 0, true
	}
	s := r.steps[r.calls]
	r.calls++
	if s.panics {
		panic("decoder blew up")
	}
	return copy(dst, s.samples), s.eof
}

func ramp(frames, channels int) []float32 {
	out := make([]float32, frames*channels)
	for i := range out {
		out[i] = float32(i%1000) / 1000
	}
	return out
}
