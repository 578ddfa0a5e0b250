// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling and rendering
package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/audio"
	"github.com/Resonate-Protocol/resonate-play/pkg/player"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats() player.Stats {
	return player.Stats{
		SessionID:      "abc-123",
		Path:           "/music/track01.flac",
		Codec:          "flac",
		State:          player.StatePlaying,
		SourceRate:     44100,
		SourceChannels: 2,
		Device:         "Built-in Output",
		DeviceConfig:   audio.StreamConfig{SampleRate: 48000, Channels: 2, Format: audio.FormatFloat32},
		Mode:           player.ModeBuffered,
		RenderedFrames: 96000,
		SkippedFrames:  3,
		Underruns:      1,
		Buffered:       180 * time.Millisecond,
		Position:       2*time.Minute + 5*time.Second,
	}
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	assert.False(t, model.hasStats)
	assert.False(t, model.showDebug)
	assert.Equal(t, "Loading...", model.View())
}

func TestStatusMsgRendersStream(t *testing.T) {
	model := sized(NewModel(nil))
	updated, cmd := model.Update(StatusMsg{Stats: sampleStats()})
	assert.Nil(t, cmd)
	model = updated.(Model)

	view := model.View()
	assert.Contains(t, view, "track01.flac")
	assert.Contains(t, view, "flac 44100Hz Stereo")
	assert.Contains(t, view, "48000Hz Stereo f32 (resampled)")
	assert.Contains(t, view, "02:05")
	assert.Contains(t, view, "180ms")
	assert.Contains(t, view, "Underruns: 1")
	assert.Contains(t, view, "playing")
}

func TestDirectModeShowsNoBuffer(t *testing.T) {
	stats := sampleStats()
	stats.Mode = player.ModeDirect
	stats.Passthrough = true

	model := sized(NewModel(nil))
	updated, _ := model.Update(StatusMsg{Stats: stats})
	view := updated.(Model).View()
	assert.Contains(t, view, "direct")
	assert.Contains(t, view, "native rate")
}

func TestDebugToggle(t *testing.T) {
	model := sized(NewModel(nil))
	updated, _ := model.Update(StatusMsg{Stats: sampleStats()})
	model = updated.(Model)
	assert.NotContains(t, model.View(), "DEBUG")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	model = updated.(Model)
	assert.True(t, model.showDebug)
	assert.Contains(t, model.View(), "abc-123")
}

func TestQuitKeySignalsControls(t *testing.T) {
	ctrl := NewControls()
	model := NewModel(ctrl)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	select {
	case <-ctrl.Quit:
	default:
		t.Fatal("quit not signalled")
	}

	// a second quit does not block when nobody is listening
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestDoneMsg(t *testing.T) {
	model := sized(NewModel(nil))

	updated, cmd := model.Update(DoneMsg{})
	require.NotNil(t, cmd)
	assert.Contains(t, updated.(Model).View(), "Finished")

	updated, _ = model.Update(DoneMsg{Err: errors.New("device unplugged")})
	assert.Contains(t, updated.(Model).View(), "Error: device unplugged")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "Mono", channelName(1))
	assert.Equal(t, "6ch", channelName(6))
	assert.Equal(t, "61:01", formatDuration(61*time.Minute+1500*time.Millisecond))
}
