// ABOUTME: Real-time rendering between the decode pipeline and the device callback
// ABOUTME: Chain pulls and resamples, Ring and Producer decouple, Renderer fills device buffers
// Package render connects decoded, resampled audio to a device callback.
//
// In buffered mode a Producer goroutine drains a Chain into a lock-free Ring
// and the Renderer reads the Ring from the audio thread. In direct mode the
// Renderer reads the Chain itself, which keeps latency minimal but performs
// decoding on the audio thread.
//
//	chain, _ := render.NewChain(session, resampler, 0)
//	ring, _ := render.NewRing(cfg.FramesFor(200*time.Millisecond), session.Channels())
//	producer := render.NewProducer(chain, ring, 0, 0)
//	producer.Prime()
//	producer.Start(ctx)
//	renderer, _ := render.NewRenderer(ring, session.Channels(), cfg, render.Options{})
//	stream, _ := platform.Register(dev, cfg, renderer.Render, onFault)
package render
