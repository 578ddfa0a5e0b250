// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Controls carries user requests from the TUI back to main
type Controls struct {
	Quit chan struct{}
}

// NewControls creates a control handler
func NewControls() *Controls {
	return &Controls{Quit: make(chan struct{}, 1)}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Controls) Model {
	return Model{controls: ctrl}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl *Controls) *tea.Program {
	return tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
}
