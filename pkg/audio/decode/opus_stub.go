//go:build !opus

// ABOUTME: Opus stub when libopusfile is not compiled in
// ABOUTME: Header probing still works; opening a stream reports ErrCodecUnavailable
package decode

import (
	"bufio"
	"fmt"
	"io"
)

// Opus is the Codec for Ogg Opus files (stub)
type Opus struct{}

func (Opus) Name() string { return "opus" }

func (Opus) NewStream(r io.Reader) (Stream, error) {
	if _, err := peekOpusChannels(bufio.NewReader(r)); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: opus (build with -tags opus)", ErrCodecUnavailable)
}
