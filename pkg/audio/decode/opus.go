//go:build opus

// ABOUTME: Ogg Opus decoder backend (build with -tags opus, needs libopusfile)
// ABOUTME: Reads the channel count from the OpusHead packet, then streams through hraban/opus
package decode

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"gopkg.in/hraban/opus.v2"
)

// Opus is the Codec for Ogg Opus files
type Opus struct{}

func (Opus) Name() string { return "opus" }

func (Opus) NewStream(r io.Reader) (Stream, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	channels, err := peekOpusChannels(br)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(br)
	if err != nil {
		return nil, fmt.Errorf("%w: opus: %v", ErrInvalidHeader, err)
	}

	return &opusStream{
		stream:   stream,
		channels: channels,
		buf:      make([]float32, opusPacketFrames*channels),
	}, nil
}

type opusStream struct {
	stream   *opus.Stream
	channels int
	buf      []float32
}

func (s *opusStream) SampleRate() int { return opusSampleRate }
func (s *opusStream) Channels() int   { return s.channels }
func (s *opusStream) Close() error    { return s.stream.Close() }

func (s *opusStream) ReadPacket() ([]float32, error) {
	// n is samples per channel
	n, err := s.stream.ReadFloat32(s.buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, corrupt("opus", err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	return s.buf[:n*s.channels], nil
}
