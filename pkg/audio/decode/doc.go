// ABOUTME: Audio decoder package for streaming compressed files
// ABOUTME: Provides Session, the Codec interface and mp3/flac/vorbis/wav/opus backends
// Package decode turns a compressed audio file into a lazy sequence of PCM frames.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), Ogg Vorbis (oggvorbis),
// WAV (go-audio/wav) and Ogg Opus (hraban/opus, build with -tags opus).
//
// Files are parsed incrementally, one codec frame at a time. A frame that
// fails to decode is skipped and counted; the session only ends at end of
// stream or after a long run of consecutive failures.
//
// Example:
//
//	s, err := decode.Open("song.flac")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	for {
//	    frame, ok := s.NextFrame()
//	    if !ok {
//	        break
//	    }
//	    process(frame) // s.Channels() samples in [-1, 1]
//	}
package decode
