// ABOUTME: Tests for audio types
// ABOUTME: Tests format metadata and stream config validation
package audio

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFormatSize(t *testing.T) {
	tests := []struct {
		format   SampleFormat
		size     int
		float    bool
		unsigned bool
	}{
		{FormatInt8, 1, false, false},
		{FormatInt16, 2, false, false},
		{FormatInt32, 4, false, false},
		{FormatInt64, 8, false, false},
		{FormatUInt8, 1, false, true},
		{FormatUInt16, 2, false, true},
		{FormatUInt32, 4, false, true},
		{FormatUInt64, 8, false, true},
		{FormatFloat32, 4, true, false},
		{FormatFloat64, 8, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			assert.Equal(t, tt.size, tt.format.Size())
			assert.Equal(t, tt.float, tt.format.IsFloat())
			assert.Equal(t, tt.unsigned, tt.format.IsUnsigned())
			assert.True(t, tt.format.Valid())
		})
	}

	assert.Len(t, Formats, 10)
	assert.False(t, FormatUnknown.Valid())
	assert.Equal(t, 0, FormatUnknown.Size())
}

func TestParseSampleFormat(t *testing.T) {
	for _, f := range Formats {
		parsed, err := ParseSampleFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseSampleFormat("s24")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestStreamConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  StreamConfig
		wantErr error
	}{
		{"valid", StreamConfig{48000, 2, FormatInt16}, nil},
		{"zero_rate", StreamConfig{0, 2, FormatInt16}, ErrInvalidConfig},
		{"zero_channels", StreamConfig{48000, 0, FormatInt16}, ErrInvalidConfig},
		{"unknown_format", StreamConfig{48000, 2, FormatUnknown}, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStreamConfigSizing(t *testing.T) {
	cfg := StreamConfig{SampleRate: 48000, Channels: 2, Format: FormatInt16}

	assert.Equal(t, 4, cfg.FrameSize())
	assert.Equal(t, 2048, cfg.BufferBytes(512))
	assert.Equal(t, 10*time.Millisecond, cfg.Duration(480))
	assert.Equal(t, 4800, cfg.FramesFor(100*time.Millisecond))
	assert.Equal(t, "48000Hz/2ch/i16", cfg.String())
}
