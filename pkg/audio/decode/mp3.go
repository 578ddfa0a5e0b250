// ABOUTME: MP3 decoder backend
// ABOUTME: Streams go-mp3 output one MPEG frame (1152 samples per channel) at a time
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

const (
	mp3Channels     = 2 // go-mp3 always outputs stereo
	mp3PacketFrames = 1152
)

// mp3Reader is the subset of gomp3.Decoder used here, to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// MP3 is the Codec for MPEG-1/2 layer III files
type MP3 struct{}

func (MP3) Name() string { return "mp3" }

func (MP3) NewStream(r io.Reader) (Stream, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %v", ErrInvalidHeader, err)
	}
	return newMP3Stream(dec), nil
}

type mp3Stream struct {
	dec mp3Reader
	buf []byte
	out []float32
	eof bool
}

func newMP3Stream(dec mp3Reader) *mp3Stream {
	return &mp3Stream{
		dec: dec,
		buf: make([]byte, mp3PacketFrames*mp3Channels*2),
		out: make([]float32, mp3PacketFrames*mp3Channels),
	}
}

func (s *mp3Stream) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Stream) Channels() int   { return mp3Channels }
func (s *mp3Stream) Close() error    { return nil }

func (s *mp3Stream) ReadPacket() ([]float32, error) {
	if s.eof {
		return nil, io.EOF
	}

	n, err := io.ReadFull(s.dec, s.buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		// Short final frame
		s.eof = true
	default:
		if n == 0 {
			return nil, corrupt("mp3", err)
		}
	}

	// 16-bit little-endian interleaved PCM
	samples := n / 2
	for i := 0; i < samples; i++ {
		s.out[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[i*2:]))) / 32768.0
	}
	return s.out[:samples], nil
}
