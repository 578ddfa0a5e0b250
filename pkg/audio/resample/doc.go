// ABOUTME: Sample rate conversion for interleaved float32 frames
// ABOUTME: Kaiser-windowed sinc interpolation processed in fixed input batches
// Package resample converts decoded audio to the device's sample rate.
//
// The default engine evaluates a tabulated Kaiser-windowed sinc kernel at
// every output instant, with the cutoff lowered to the target Nyquist when
// downsampling. Input is consumed in fixed batches of Config.BatchFrames;
// a short tail is held until Flush. Matching rates bypass filtering entirely.
//
// Example:
//
//	r, err := resample.Configure(44100, 48000, 2)
//	if err != nil {
//		return err
//	}
//	out := r.Push(frames)
//	...
//	tail := r.Flush()
package resample
