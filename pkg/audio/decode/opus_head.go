// ABOUTME: OpusHead parsing shared by the opus backend and its stub
// ABOUTME: Finds the identification packet in the first Ogg page
package decode

import (
	"bufio"
	"bytes"
	"fmt"
)

const (
	opusSampleRate   = 48000 // libopusfile always decodes at 48kHz
	opusPacketFrames = 5760  // 120ms at 48kHz, the largest Opus frame
	oggHeaderSize    = 27
)

// peekOpusChannels reads the channel count from the OpusHead packet without
// consuming input.
func peekOpusChannels(br *bufio.Reader) (int, error) {
	hdr, err := br.Peek(oggHeaderSize)
	if err != nil || !bytes.Equal(hdr[:4], []byte("OggS")) {
		return 0, fmt.Errorf("%w: opus: missing Ogg page", ErrInvalidHeader)
	}

	segments := int(hdr[26])
	page, err := br.Peek(oggHeaderSize + segments + 19)
	if err != nil {
		return 0, fmt.Errorf("%w: opus: short first page", ErrInvalidHeader)
	}

	payload := page[oggHeaderSize+segments:]
	if !bytes.Equal(payload[:8], []byte("OpusHead")) {
		return 0, fmt.Errorf("%w: opus: first packet is not OpusHead", ErrInvalidHeader)
	}

	channels := int(payload[9])
	if channels == 0 {
		return 0, fmt.Errorf("%w: opus: zero channels", ErrInvalidHeader)
	}
	return channels, nil
}
