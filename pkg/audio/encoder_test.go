// ABOUTME: Tests for byte-level sample encoders
// ABOUTME: Covers dispatch totality, silence patterns and little-endian layout
package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderForIsTotal(t *testing.T) {
	for _, f := range Formats {
		enc, err := EncoderFor(f)
		require.NoError(t, err, f.String())
		assert.Equal(t, f, enc.Format())
		assert.Equal(t, f.Size(), enc.Size())
	}

	_, err := EncoderFor(FormatUnknown)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncoderRoundTrip(t *testing.T) {
	for _, f := range Formats {
		t.Run(f.String(), func(t *testing.T) {
			enc, err := EncoderFor(f)
			require.NoError(t, err)

			buf := make([]byte, len(amplitudes)*enc.Size())
			assert.Equal(t, len(amplitudes), enc.Encode(buf, amplitudes))

			back := make([]float32, len(amplitudes))
			assert.Equal(t, len(amplitudes), enc.Decode(back, buf))

			for i, x := range amplitudes {
				assert.LessOrEqual(t, math.Abs(float64(back[i]-x)), Quantum(f)+1e-9)
			}
		})
	}
}

func TestEncoderLittleEndianInt16(t *testing.T) {
	enc, err := EncoderFor(FormatInt16)
	require.NoError(t, err)

	buf := make([]byte, 4)
	enc.Encode(buf, []float32{0.5, -1})

	assert.Equal(t, []byte{0x00, 0x40, 0x00, 0x80}, buf)
}

func TestEncoderSilence(t *testing.T) {
	tests := []struct {
		format SampleFormat
		want   []byte
	}{
		{FormatInt16, []byte{0, 0, 0, 0}},
		{FormatUInt8, []byte{0x80, 0x80, 0x80, 0x80}},
		{FormatUInt16, []byte{0x00, 0x80, 0x00, 0x80}},
		{FormatFloat32, []byte{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			enc, err := EncoderFor(tt.format)
			require.NoError(t, err)

			buf := []byte{1, 2, 3, 4}
			enc.Silence(buf)
			assert.Equal(t, tt.want, buf)
		})
	}
}

func TestEncodeStopsAtShorterSide(t *testing.T) {
	enc, err := EncoderFor(FormatInt8)
	require.NoError(t, err)

	buf := make([]byte, 2)
	assert.Equal(t, 2, enc.Encode(buf, []float32{0.1, 0.2, 0.3}))
	assert.Equal(t, 1, enc.Encode(buf, []float32{0.1}))
}
