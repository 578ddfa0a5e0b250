// ABOUTME: Tests for the decode-to-resample pull chain
// ABOUTME: Verifies pass-through, carry-over between reads and resampled frame counts
package render

import (
	"runtime"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio/resample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, r FrameReader, chunk int) []float32 {
	t.Helper()
	var out []float32
	dst := make([]float32, chunk)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		n, eof := r.ReadFrames(dst)
		out = append(out, dst[:n]...)
		if eof {
			return out
		}
		if n == 0 {
			runtime.Gosched()
		}
	}
	t.Fatal("reader never reported eof")
	return nil
}

func TestChainPassthrough(t *testing.T) {
	data := ramp(3000, 2)
	c, err := NewChain(&sliceSource{data: data, channels: 2}, nil, 256)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Channels())

	assert.Equal(t, data, drain(t, c, 98))
}

func TestChainWithEqualRateResampler(t *testing.T) {
	rs, err := resample.Configure(48000, 48000, 2)
	require.NoError(t, err)

	data := ramp(1500, 2)
	c, err := NewChain(&sliceSource{data: data, channels: 2}, rs, 100)
	require.NoError(t, err)

	assert.Equal(t, data, drain(t, c, 64))
}

func TestChainResampledCount(t *testing.T) {
	rs, err := resample.Configure(44100, 48000, 2)
	require.NoError(t, err)

	const frames = 10000
	c, err := NewChain(&sliceSource{data: ramp(frames, 2), channels: 2}, rs, 0)
	require.NoError(t, err)

	out := drain(t, c, 512*2)
	assert.InDelta(t, rs.OutputFrames(frames), len(out)/2, 1)
}

func TestChainEmptySource(t *testing.T) {
	c, err := NewChain(&sliceSource{channels: 1}, nil, 0)
	require.NoError(t, err)

	n, eof := c.ReadFrames(make([]float32, 8))
	assert.Zero(t, n)
	assert.True(t, eof)
}

func TestChainValidation(t *testing.T) {
	_, err := NewChain(&sliceSource{channels: 0}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	rs, err := resample.Configure(44100, 48000, 1)
	require.NoError(t, err)
	_, err = NewChain(&sliceSource{channels: 2}, rs, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
