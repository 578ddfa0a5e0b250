// ABOUTME: Local file player built on the decode, resample, render and output packages
// ABOUTME: Provides Open/Play/Wait/Close and playback statistics
// Package player streams an audio file to the default output device.
//
// Open negotiates the device and builds the pipeline; every setup failure
// is a *SetupError naming the stage. Play registers the render callback and
// returns immediately. Wait returns nil at end of file, or an error wrapping
// ErrPlatformFault if the device stopped underneath the session.
//
// Example:
//
//	p, err := player.Open(player.Config{Path: "song.flac"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//	if err := p.Play(); err != nil {
//		log.Fatal(err)
//	}
//	err = p.Wait(context.Background())
package player
