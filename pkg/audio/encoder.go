// ABOUTME: Byte-level encoders for device-native output buffers
// ABOUTME: EncoderFor selects a conversion once at setup so the callback never switches per sample
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

var le = binary.LittleEndian

// Encoder writes normalized amplitudes into little-endian device buffers.
// The zero Encoder is not usable; obtain one from EncoderFor.
type Encoder struct {
	format  SampleFormat
	size    int
	put     func(dst []byte, x float32)
	get     func(src []byte) float32
	silence [8]byte
}

var encoders = map[SampleFormat]Encoder{
	FormatInt8: {
		put: func(b []byte, x float32) { b[0] = byte(FloatToInt8(x)) },
		get: func(b []byte) float32 { return Int8ToFloat(int8(b[0])) },
	},
	FormatInt16: {
		put: func(b []byte, x float32) { le.PutUint16(b, uint16(FloatToInt16(x))) },
		get: func(b []byte) float32 { return Int16ToFloat(int16(le.Uint16(b))) },
	},
	FormatInt32: {
		put: func(b []byte, x float32) { le.PutUint32(b, uint32(FloatToInt32(x))) },
		get: func(b []byte) float32 { return Int32ToFloat(int32(le.Uint32(b))) },
	},
	FormatInt64: {
		put: func(b []byte, x float32) { le.PutUint64(b, uint64(FloatToInt64(x))) },
		get: func(b []byte) float32 { return Int64ToFloat(int64(le.Uint64(b))) },
	},
	FormatUInt8: {
		put: func(b []byte, x float32) { b[0] = FloatToUint8(x) },
		get: func(b []byte) float32 { return Uint8ToFloat(b[0]) },
	},
	FormatUInt16: {
		put: func(b []byte, x float32) { le.PutUint16(b, FloatToUint16(x)) },
		get: func(b []byte) float32 { return Uint16ToFloat(le.Uint16(b)) },
	},
	FormatUInt32: {
		put: func(b []byte, x float32) { le.PutUint32(b, FloatToUint32(x)) },
		get: func(b []byte) float32 { return Uint32ToFloat(le.Uint32(b)) },
	},
	FormatUInt64: {
		put: func(b []byte, x float32) { le.PutUint64(b, FloatToUint64(x)) },
		get: func(b []byte) float32 { return Uint64ToFloat(le.Uint64(b)) },
	},
	FormatFloat32: {
		put: func(b []byte, x float32) { le.PutUint32(b, math.Float32bits(x)) },
		get: func(b []byte) float32 { return math.Float32frombits(le.Uint32(b)) },
	},
	FormatFloat64: {
		put: func(b []byte, x float32) { le.PutUint64(b, math.Float64bits(float64(x))) },
		get: func(b []byte) float32 { return float32(math.Float64frombits(le.Uint64(b))) },
	},
}

func init() {
	for f, e := range encoders {
		e.format = f
		e.size = f.Size()
		e.put(e.silence[:e.size], 0)
		encoders[f] = e
	}
}

// EncoderFor returns the encoder for f. Unknown formats fail here, at setup,
// never inside the render callback.
func EncoderFor(f SampleFormat) (Encoder, error) {
	e, ok := encoders[f]
	if !ok {
		return Encoder{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return e, nil
}

// Format returns the representation this encoder writes
func (e Encoder) Format() SampleFormat { return e.format }

// Size returns bytes per sample
func (e Encoder) Size() int { return e.size }

// Put writes one sample at the start of dst
func (e Encoder) Put(dst []byte, x float32) { e.put(dst, x) }

// Get reads one sample from the start of src
func (e Encoder) Get(src []byte) float32 { return e.get(src) }

// Encode converts src into dst and returns the number of samples written
func (e Encoder) Encode(dst []byte, src []float32) int {
	n := len(dst) / e.size
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		e.put(dst[i*e.size:], src[i])
	}
	return n
}

// Decode reads samples from src into dst and returns the number read
func (e Encoder) Decode(dst []float32, src []byte) int {
	n := len(src) / e.size
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = e.get(src[i*e.size:])
	}
	return n
}

// Silence fills dst with the format's zero-amplitude value
func (e Encoder) Silence(dst []byte) {
	sil := e.silence[:e.size]
	for i := 0; i+e.size <= len(dst); i += e.size {
		copy(dst[i:], sil)
	}
}
