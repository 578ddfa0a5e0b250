// ABOUTME: WAV decoder backend
// ABOUTME: Reads integer PCM chunks through go-audio/wav IntBuffers
package decode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavPacketFrames = 1024
	wavFormatPCM    = 1
)

// wavReader is the subset of wav.Decoder used after the header is parsed
type wavReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// WAV is the Codec for RIFF/WAVE integer PCM files. The input must be seekable.
type WAV struct{}

func (WAV) Name() string { return "wav" }

func (WAV) NewStream(r io.Reader) (Stream, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, fmt.Errorf("%w: wav needs a seekable reader", ErrUnreadableSource)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: wav: not a valid RIFF/WAVE file", ErrInvalidHeader)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav: audio format %d (only integer PCM)", ErrInvalidHeader, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: wav: %v", ErrInvalidHeader, err)
	}

	return newWAVStream(dec, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth))
}

type wavStream struct {
	dec      wavReader
	rate     int
	channels int
	bps      int
	buf      *goaudio.IntBuffer
	out      []float32
}

func newWAVStream(dec wavReader, rate, channels, bps int) (*wavStream, error) {
	if bps <= 0 || bps > 32 {
		return nil, fmt.Errorf("%w: wav: %d bits per sample", ErrInvalidHeader, bps)
	}
	return &wavStream{
		dec:      dec,
		rate:     rate,
		channels: channels,
		bps:      bps,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
			Data:           make([]int, wavPacketFrames*max(channels, 1)),
			SourceBitDepth: bps,
		},
		out: make([]float32, wavPacketFrames*max(channels, 1)),
	}, nil
}

func (s *wavStream) SampleRate() int { return s.rate }
func (s *wavStream) Channels() int   { return s.channels }
func (s *wavStream) Close() error    { return nil }

func (s *wavStream) ReadPacket() ([]float32, error) {
	s.buf.Data = s.buf.Data[:cap(s.buf.Data)]
	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err == nil || err == io.EOF {
			return nil, io.EOF
		}
		return nil, corrupt("wav", err)
	}

	// 8-bit WAV is unsigned, wider depths are signed
	var offset int
	if s.bps == 8 {
		offset = 128
	}
	scale := 1.0 / float64(int64(1)<<(s.bps-1))
	for i := 0; i < n; i++ {
		s.out[i] = float32(float64(s.buf.Data[i]-offset) * scale)
	}
	return s.out[:n], nil
}
