// ABOUTME: FLAC decoder backend
// ABOUTME: Parses one FLAC frame per packet with mewkiz/flac and normalizes by bit depth
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLAC is the Codec for native FLAC files
type FLAC struct{}

func (FLAC) Name() string { return "flac" }

func (FLAC) NewStream(r io.Reader) (Stream, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: flac: %v", ErrInvalidHeader, err)
	}

	info := stream.Info
	if info.BitsPerSample == 0 || info.BitsPerSample > 32 {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: flac: %d bits per sample", ErrInvalidHeader, info.BitsPerSample)
	}

	return &flacStream{
		stream:   stream,
		rate:     int(info.SampleRate),
		channels: int(info.NChannels),
		bps:      int(info.BitsPerSample),
	}, nil
}

type flacStream struct {
	stream   *flac.Stream
	rate     int
	channels int
	bps      int
	out      []float32
}

func (s *flacStream) SampleRate() int { return s.rate }
func (s *flacStream) Channels() int   { return s.channels }
func (s *flacStream) Close() error    { return s.stream.Close() }

func (s *flacStream) ReadPacket() ([]float32, error) {
	f, err := s.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, corrupt("flac", err)
	}

	if len(f.Subframes) != s.channels {
		return nil, corrupt("flac", fmt.Errorf("frame has %d channels, stream has %d",
			len(f.Subframes), s.channels))
	}

	planes := make([][]int32, len(f.Subframes))
	for ch, sub := range f.Subframes {
		planes[ch] = sub.Samples
	}

	s.out = interleaveInt32(s.out, planes, int(f.BlockSize), s.bps)
	return s.out, nil
}

// interleaveInt32 converts per-channel integer planes of the given bit depth
// into interleaved normalized samples, reusing dst when it is large enough.
func interleaveInt32(dst []float32, planes [][]int32, blockSize, bps int) []float32 {
	channels := len(planes)
	for _, p := range planes {
		if len(p) < blockSize {
			blockSize = len(p)
		}
	}

	need := blockSize * channels
	if cap(dst) < need {
		dst = make([]float32, need)
	}
	dst = dst[:need]

	scale := 1.0 / float64(int64(1)<<(bps-1))
	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < channels; ch++ {
			dst[i*channels+ch] = float32(float64(planes[ch][i]) * scale)
		}
	}
	return dst
}
