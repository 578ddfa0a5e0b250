// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Renders playback statistics pushed from the player
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Resonate-Protocol/resonate-play/pkg/player"
	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the TUI state
type Model struct {
	stats    player.Stats
	hasStats bool

	finished bool
	err      error

	showDebug bool
	controls  *Controls

	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Stats player.Stats
}

// DoneMsg reports that playback has ended
type DoneMsg struct {
	Err error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.stats = msg.Stats
		m.hasStats = true
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := m.renderHeader()
	s += m.renderStreamInfo()
	s += m.renderProgress()
	s += m.renderStats()
	if m.showDebug {
		s += m.renderDebug()
	}
	s += m.renderHelp()
	return s
}

func (m Model) renderHeader() string {
	status := "Starting"
	switch {
	case m.err != nil:
		status = "Error: " + truncate(m.err.Error(), 38)
	case m.finished:
		status = "Finished"
	case m.hasStats:
		status = m.stats.State.String()
	}

	return fmt.Sprintf(`┌─ Resonate Play ──────────────────────────────────────┐
│ Status: %-45s │
├──────────────────────────────────────────────────────┤
`, status)
}

func (m Model) renderStreamInfo() string {
	if !m.hasStats {
		return "│ No stream                                            │\n"
	}

	st := m.stats
	s := fmt.Sprintf("│ File:   %-45s │\n", truncate(filepath.Base(st.Path), 45))
	s += fmt.Sprintf("│ Source: %-45s │\n",
		fmt.Sprintf("%s %dHz %s", st.Codec, st.SourceRate, channelName(st.SourceChannels)))
	s += fmt.Sprintf("│ Device: %-45s │\n", truncate(st.Device, 45))
	s += fmt.Sprintf("│ Output: %-45s │\n",
		fmt.Sprintf("%dHz %s %s (%s)", st.DeviceConfig.SampleRate, channelName(st.DeviceConfig.Channels),
			st.DeviceConfig.Format, resampleLabel(st.Passthrough)))
	return s
}

func (m Model) renderProgress() string {
	st := m.stats
	s := "│                                                      │\n"
	s += fmt.Sprintf("│ Played: %-45s │\n", formatDuration(st.Position))
	if st.Mode == player.ModeBuffered {
		s += fmt.Sprintf("│ Buffer: %-45s │\n", fmt.Sprintf("%dms", st.Buffered.Milliseconds()))
	} else {
		s += fmt.Sprintf("│ Buffer: %-45s │\n", "direct")
	}
	return s
}

func (m Model) renderStats() string {
	line := fmt.Sprintf("Frames: %d  Skipped: %d  Underruns: %d",
		m.stats.RenderedFrames, m.stats.SkippedFrames, m.stats.Underruns)
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ %-52s │
│                                                      │
`, truncate(line, 52))
}

func (m Model) renderHelp() string {
	return `│ d:Debug  q:Quit                                      │
└──────────────────────────────────────────────────────┘
`
}

func (m Model) renderDebug() string {
	st := m.stats
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Session:   %-40s│
│   Callbacks: %-40d│
│   Silent:    %-40d│
│   Faults:    %-40d│
│   Decoded:   %-40d│
`, truncate(st.SessionID, 40), st.Callbacks, st.SilentFrames, st.Faults, st.DecodedFrames)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.controls != nil {
			select {
			case m.controls.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// Utility functions
func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	}
	return fmt.Sprintf("%dch", channels)
}

func resampleLabel(passthrough bool) string {
	if passthrough {
		return "native rate"
	}
	return "resampled"
}

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
