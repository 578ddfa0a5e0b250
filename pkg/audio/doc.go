// ABOUTME: Audio fundamentals package providing core types and sample conversion
// ABOUTME: Defines StreamConfig, SampleFormat and the normalized amplitude contract
// Package audio provides the types shared by the decode, resample and render
// stages of the player.
//
// Internally every stage works on interleaved float32 amplitudes in [-1, 1].
// Devices want one of ten native representations:
//   - signed integers (i8, i16, i32, i64): -1 maps to the minimum, +1 saturates
//   - unsigned integers (u8, u16, u32, u64): same scale, offset so 0 is the midpoint
//   - floats (f32, f64): passed through unchanged
//
// Example:
//
//	cfg := audio.StreamConfig{SampleRate: 48000, Channels: 2, Format: audio.FormatInt16}
//	enc, err := audio.EncoderFor(cfg.Format)
//	buf := make([]byte, cfg.BufferBytes(512))
//	enc.Encode(buf, samples)
package audio
