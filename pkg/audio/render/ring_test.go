// ABOUTME: Tests for the SPSC sample ring
// ABOUTME: Covers wraparound, frame alignment, close semantics and concurrent ordering
package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRingValidation(t *testing.T) {
	_, err := NewRing(0, 2)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewRing(16, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRingWraparound(t *testing.T) {
	r, err := NewRing(4, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, r.Cap())

	assert.Equal(t, 6, r.Write([]float32{1, 2, 3, 4, 5, 6}))
	dst := make([]float32, 4)
	n, eof := r.ReadFrames(dst)
	assert.Equal(t, 4, n)
	assert.False(t, eof)
	assert.Equal(t, []float32{1, 2, 3, 4}, dst)

	// wraps past the end of the buffer
	assert.Equal(t, 6, r.Write([]float32{7, 8, 9, 10, 11, 12}))
	assert.Equal(t, 8, r.Len())
	assert.Zero(t, r.Free())

	dst = make([]float32, 8)
	n, _ = r.ReadFrames(dst)
	assert.Equal(t, 8, n)
	assert.Equal(t, []float32{5, 6, 7, 8, 9, 10, 11, 12}, dst)
}

func TestRingWholeFramesOnly(t *testing.T) {
	r, err := NewRing(4, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Write([]float32{1, 2, 3}))
	dst := make([]float32, 3)
	n, _ := r.ReadFrames(dst)
	assert.Equal(t, 2, n)

	assert.Equal(t, 8, r.Write(make([]float32, 10)))
}

func TestRingCloseDrainsThenEOF(t *testing.T) {
	r, err := NewRing(4, 1)
	require.NoError(t, err)

	r.Write([]float32{1, 2, 3})
	r.Close()
	assert.Zero(t, r.Write([]float32{4}))

	dst := make([]float32, 2)
	n, eof := r.ReadFrames(dst)
	assert.Equal(t, 2, n)
	assert.False(t, eof)

	n, eof = r.ReadFrames(dst)
	assert.Equal(t, 1, n)
	assert.True(t, eof)

	n, eof = r.ReadFrames(dst)
	assert.Zero(t, n)
	assert.True(t, eof)
}

func TestRingEmptyIsNotEOF(t *testing.T) {
	r, err := NewRing(4, 1)
	require.NoError(t, err)

	n, eof := r.ReadFrames(make([]float32, 4))
	assert.Zero(t, n)
	assert.False(t, eof)
}

func TestRingConcurrentOrder(t *testing.T) {
	const total = 200000
	r, err := NewRing(64, 2)
	require.NoError(t, err)

	go func() {
		buf := make([]float32, 0, 14)
		next := 0
		for next < total {
			buf = buf[:0]
			for len(buf) < cap(buf) && next < total {
				buf = append(buf, float32(next))
				next++
			}
			for len(buf) > 0 {
				buf = buf[r.Write(buf):]
			}
		}
		r.Close()
	}()

	got := make([]float32, 0, total)
	dst := make([]float32, 10)
	for {
		n, eof := r.ReadFrames(dst)
		got = append(got, dst[:n]...)
		if eof {
			break
		}
	}

	require.Len(t, got, total)
	for i, v := range got {
		if float32(i) != v {
			t.Fatalf("sample %d out of order: %v", i, v)
		}
	}
}
