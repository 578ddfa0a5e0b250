// ABOUTME: Tests for OpusHead probing
// ABOUTME: Builds a minimal first Ogg page and reads its channel count
package decode

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opusFirstPage(channels byte) []byte {
	head := []byte("OpusHead")
	head = append(head, 1, channels, 0x38, 0x01, 0x80, 0xbb, 0, 0, 0, 0, 0)

	page := []byte("OggS")
	page = append(page, make([]byte, 22)...) // version .. checksum
	page = append(page, 1, byte(len(head)))  // one segment
	return append(page, head...)
}

func TestPeekOpusChannels(t *testing.T) {
	br := bufio.NewReader(bytes.NewReader(opusFirstPage(2)))
	channels, err := peekOpusChannels(br)
	require.NoError(t, err)
	assert.Equal(t, 2, channels)

	// Nothing was consumed
	b, err := br.Peek(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("OggS"), b)
}

func TestPeekOpusChannelsRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not_ogg", []byte("RIFF0000WAVEfmt and more bytes here")},
		{"short", []byte("OggS")},
		{"zero_channels", opusFirstPage(0)},
		{"vorbis_page", append(opusFirstPage(2)[:28], []byte("\x01vorbis-header-bytes")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := peekOpusChannels(bufio.NewReader(bytes.NewReader(tt.data)))
			assert.ErrorIs(t, err, ErrInvalidHeader)
		})
	}
}
