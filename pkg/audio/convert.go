// ABOUTME: Normalized amplitude conversion for every device sample type
// ABOUTME: Integer formats clamp and round, unsigned formats are offset to their midpoint
package audio

import "math"

// Sample is the set of Go types a device-native buffer may hold
type Sample interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// quantize maps x in [-1, 1] to a signed integer of the given width.
// -1 maps to the minimum exactly; +1 saturates at the maximum.
func quantize(x float32, bits uint) int64 {
	maxV := int64(^uint64(0) >> (65 - bits))
	minV := -maxV - 1
	if x != x {
		return 0
	}
	scale := math.Ldexp(1, int(bits)-1)
	v := math.Round(float64(x) * scale)
	if v >= scale {
		return maxV
	}
	if v <= -scale {
		return minV
	}
	return int64(v)
}

func dequantize(v int64, bits uint) float32 {
	return float32(float64(v) / math.Ldexp(1, int(bits)-1))
}

func FloatToInt8(x float32) int8   { return int8(quantize(x, 8)) }
func FloatToInt16(x float32) int16 { return int16(quantize(x, 16)) }
func FloatToInt32(x float32) int32 { return int32(quantize(x, 32)) }
func FloatToInt64(x float32) int64 { return quantize(x, 64) }

func FloatToUint8(x float32) uint8   { return uint8(quantize(x, 8)) ^ 0x80 }
func FloatToUint16(x float32) uint16 { return uint16(quantize(x, 16)) ^ 0x8000 }
func FloatToUint32(x float32) uint32 { return uint32(quantize(x, 32)) ^ 0x80000000 }
func FloatToUint64(x float32) uint64 { return uint64(quantize(x, 64)) ^ (1 << 63) }

func Int8ToFloat(v int8) float32   { return dequantize(int64(v), 8) }
func Int16ToFloat(v int16) float32 { return dequantize(int64(v), 16) }
func Int32ToFloat(v int32) float32 { return dequantize(int64(v), 32) }
func Int64ToFloat(v int64) float32 { return dequantize(v, 64) }

func Uint8ToFloat(v uint8) float32   { return dequantize(int64(int8(v^0x80)), 8) }
func Uint16ToFloat(v uint16) float32 { return dequantize(int64(int16(v^0x8000)), 16) }
func Uint32ToFloat(v uint32) float32 { return dequantize(int64(int32(v^0x80000000)), 32) }
func Uint64ToFloat(v uint64) float32 { return dequantize(int64(v^(1<<63)), 64) }

// FromFloat converts a normalized amplitude into T
func FromFloat[T Sample](x float32) T {
	var out T
	switch p := any(&out).(type) {
	case *int8:
		*p = FloatToInt8(x)
	case *int16:
		*p = FloatToInt16(x)
	case *int32:
		*p = FloatToInt32(x)
	case *int64:
		*p = FloatToInt64(x)
	case *uint8:
		*p = FloatToUint8(x)
	case *uint16:
		*p = FloatToUint16(x)
	case *uint32:
		*p = FloatToUint32(x)
	case *uint64:
		*p = FloatToUint64(x)
	case *float32:
		*p = x
	case *float64:
		*p = float64(x)
	}
	return out
}

// ToFloat converts a device sample back to a normalized amplitude
func ToFloat[T Sample](v T) float32 {
	switch s := any(v).(type) {
	case int8:
		return Int8ToFloat(s)
	case int16:
		return Int16ToFloat(s)
	case int32:
		return Int32ToFloat(s)
	case int64:
		return Int64ToFloat(s)
	case uint8:
		return Uint8ToFloat(s)
	case uint16:
		return Uint16ToFloat(s)
	case uint32:
		return Uint32ToFloat(s)
	case uint64:
		return Uint64ToFloat(s)
	case float32:
		return s
	case float64:
		return float32(s)
	}
	return 0
}

// FormatOf returns the SampleFormat matching the Go type T
func FormatOf[T Sample]() SampleFormat {
	var zero T
	switch any(zero).(type) {
	case int8:
		return FormatInt8
	case int16:
		return FormatInt16
	case int32:
		return FormatInt32
	case int64:
		return FormatInt64
	case uint8:
		return FormatUInt8
	case uint16:
		return FormatUInt16
	case uint32:
		return FormatUInt32
	case uint64:
		return FormatUInt64
	case float32:
		return FormatFloat32
	case float64:
		return FormatFloat64
	}
	return FormatUnknown
}

// Silence returns the zero-amplitude value of T
func Silence[T Sample]() T {
	return FromFloat[T](0)
}

// Quantum returns the largest round trip error a format can introduce
func Quantum(f SampleFormat) float64 {
	if f.IsFloat() {
		return 0
	}
	if !f.Valid() {
		return math.Inf(1)
	}
	return math.Ldexp(1, -(f.Bits() - 1))
}

// Clamp limits x to the normalized range
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
