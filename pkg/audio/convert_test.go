// ABOUTME: Tests for normalized amplitude conversion
// ABOUTME: Verifies clamping, midpoint offsets and round trips for every format
package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var amplitudes = []float32{-1, -0.999, -0.5, -0.25, -1e-3, 0, 1e-3, 0.1, 0.25, 0.5, 0.75, 0.999, 1}

func roundTrip[T Sample](t *testing.T) {
	t.Helper()
	q := Quantum(FormatOf[T]())
	for _, x := range amplitudes {
		got := ToFloat(FromFloat[T](x))
		assert.LessOrEqualf(t, math.Abs(float64(got-x)), q+1e-9,
			"%s: %v round tripped to %v", FormatOf[T](), x, got)
	}
}

func TestRoundTripAllFormats(t *testing.T) {
	t.Run("i8", roundTrip[int8])
	t.Run("i16", roundTrip[int16])
	t.Run("i32", roundTrip[int32])
	t.Run("i64", roundTrip[int64])
	t.Run("u8", roundTrip[uint8])
	t.Run("u16", roundTrip[uint16])
	t.Run("u32", roundTrip[uint32])
	t.Run("u64", roundTrip[uint64])
	t.Run("f32", roundTrip[float32])
	t.Run("f64", roundTrip[float64])
}

func TestSignedClamping(t *testing.T) {
	assert.Equal(t, int16(32767), FloatToInt16(1))
	assert.Equal(t, int16(32767), FloatToInt16(1.5))
	assert.Equal(t, int16(-32768), FloatToInt16(-1))
	assert.Equal(t, int16(-32768), FloatToInt16(-7))
	assert.Equal(t, int16(0), FloatToInt16(0))
	assert.Equal(t, int16(16384), FloatToInt16(0.5))

	assert.Equal(t, int8(127), FloatToInt8(2))
	assert.Equal(t, int8(-128), FloatToInt8(-2))
	assert.Equal(t, int32(math.MaxInt32), FloatToInt32(1))
	assert.Equal(t, int64(math.MaxInt64), FloatToInt64(1))
	assert.Equal(t, int64(math.MinInt64), FloatToInt64(-1))
}

func TestUnsignedMidpoint(t *testing.T) {
	assert.Equal(t, uint8(128), FloatToUint8(0))
	assert.Equal(t, uint16(32768), FloatToUint16(0))
	assert.Equal(t, uint32(1<<31), FloatToUint32(0))
	assert.Equal(t, uint64(1<<63), FloatToUint64(0))

	assert.Equal(t, uint8(0), FloatToUint8(-1))
	assert.Equal(t, uint8(255), FloatToUint8(1))
	assert.Equal(t, uint16(0), FloatToUint16(-3))
	assert.Equal(t, uint16(65535), FloatToUint16(3))
	assert.Equal(t, uint64(math.MaxUint64), FloatToUint64(1))
}

func TestNaNConvertsToSilence(t *testing.T) {
	nan := float32(math.NaN())
	assert.Equal(t, int16(0), FloatToInt16(nan))
	assert.Equal(t, uint8(128), FloatToUint8(nan))
}

func TestFloatsPassThrough(t *testing.T) {
	assert.Equal(t, float32(1.5), FromFloat[float32](1.5))
	assert.Equal(t, float64(float32(-0.3)), FromFloat[float64](-0.3))
}

func TestSilenceValues(t *testing.T) {
	assert.Equal(t, int16(0), Silence[int16]())
	assert.Equal(t, uint8(128), Silence[uint8]())
	assert.Equal(t, uint32(1<<31), Silence[uint32]())
	assert.Equal(t, float64(0), Silence[float64]())
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatInt8, FormatOf[int8]())
	assert.Equal(t, FormatUInt64, FormatOf[uint64]())
	assert.Equal(t, FormatFloat32, FormatOf[float32]())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(3))
	assert.Equal(t, float32(-1), Clamp(-3))
	assert.Equal(t, float32(0.5), Clamp(0.5))
}
