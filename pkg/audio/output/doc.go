// ABOUTME: Audio output platforms and device negotiation
// ABOUTME: Provides the Platform interface with malgo, oto, PortAudio and null backends
// Package output binds the player to a platform audio library.
//
// Negotiate picks the platform's default playback device and adopts its
// default configuration unchanged. Register then attaches a render callback
// that receives little-endian buffers in that configuration.
//
// Backends:
//   - malgo: miniaudio; queries the device's native format (default)
//   - oto: fixed requested configuration; i16, f32 or u8 only
//   - portaudio: float32 only; requires the portaudio build tag
//   - null: no hardware; for tests and headless runs
//
// Example:
//
//	p, err := output.Open("malgo", audio.StreamConfig{})
//	dev, cfg, err := output.Negotiate(p)
//	stream, err := p.Register(dev, cfg, renderer.Render, onFault)
//	err = stream.Start()
package output
