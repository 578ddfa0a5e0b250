// ABOUTME: Ogg Vorbis decoder backend
// ABOUTME: Wraps jfreymuth/oggvorbis, which already produces float32 samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

const vorbisPacketFrames = 1024

// oggReader is the subset of oggvorbis.Reader used here, to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// Vorbis is the Codec for Ogg Vorbis files
type Vorbis struct{}

func (Vorbis) Name() string { return "vorbis" }

func (Vorbis) NewStream(r io.Reader) (Stream, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: vorbis: %v", ErrInvalidHeader, err)
	}
	return newVorbisStream(dec), nil
}

type vorbisStream struct {
	dec oggReader
	buf []float32
	eof bool
}

func newVorbisStream(dec oggReader) *vorbisStream {
	return &vorbisStream{
		dec: dec,
		buf: make([]float32, vorbisPacketFrames*max(dec.Channels(), 1)),
	}
}

func (s *vorbisStream) SampleRate() int { return s.dec.SampleRate() }
func (s *vorbisStream) Channels() int   { return s.dec.Channels() }
func (s *vorbisStream) Close() error    { return nil }

func (s *vorbisStream) ReadPacket() ([]float32, error) {
	if s.eof {
		return nil, io.EOF
	}

	// Read returns the number of float32 values decoded
	n, err := s.dec.Read(s.buf)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			if n == 0 {
				return nil, corrupt("vorbis", err)
			}
		} else {
			s.eof = true
			if n == 0 {
				return nil, io.EOF
			}
		}
	}
	return s.buf[:n], nil
}
