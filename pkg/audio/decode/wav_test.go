// ABOUTME: Tests for the WAV backend and file opening
// ABOUTME: Writes real WAV files with go-audio/wav and decodes them through the registry
package decode

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, name string, rate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpenWAVFile(t *testing.T) {
	frames := 2500
	data := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		data[i*2] = 16384
		data[i*2+1] = -16384
	}
	path := writeWAV(t, "stereo.wav", 44100, 16, 2, data)

	s, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, "wav", s.Codec())
	assert.Equal(t, 44100, s.SampleRate())
	assert.Equal(t, 2, s.Channels())

	count := 0
	for {
		frame, ok := s.NextFrame()
		if !ok {
			break
		}
		assert.Equal(t, float32(0.5), frame[0])
		assert.Equal(t, float32(-0.5), frame[1])
		count++
	}
	assert.Equal(t, frames, count)
	assert.Equal(t, uint64(0), s.Skipped())
}

func TestOpenWAVEightBitIsUnsigned(t *testing.T) {
	path := writeWAV(t, "mono8.wav", 8000, 8, 1, []int{128, 192, 0})

	s, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	dst := make([]float32, 8)
	n := s.ReadFrames(dst)
	require.Equal(t, 3, n)
	assert.Equal(t, []float32{0, 0.5, -1}, dst[:3])
}

func TestWAVStreamEmptyReadIsEOF(t *testing.T) {
	s, err := newWAVStream(wavFunc(func(*goaudio.IntBuffer) (int, error) { return 0, nil }), 8000, 1, 16)
	require.NoError(t, err)

	_, err = s.ReadPacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWAVStreamReadErrorIsCorrupt(t *testing.T) {
	s, err := newWAVStream(wavFunc(func(*goaudio.IntBuffer) (int, error) {
		return 0, errors.New("short chunk")
	}), 8000, 1, 16)
	require.NoError(t, err)

	_, err = s.ReadPacket()
	assert.ErrorIs(t, err, ErrCorruptFrame)
}

func TestWAVRejectsBadInput(t *testing.T) {
	_, err := WAV{}.NewStream(bytes.NewReader([]byte("RIFF....WAVEjunk")))
	assert.ErrorIs(t, err, ErrInvalidHeader)

	_, err = WAV{}.NewStream(bytes.NewBufferString("not seekable"))
	assert.ErrorIs(t, err, ErrUnreadableSource)

	_, err = newWAVStream(nil, 8000, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

type wavFunc func(*goaudio.IntBuffer) (int, error)

func (f wavFunc) PCMBuffer(buf *goaudio.IntBuffer) (int, error) { return f(buf) }
