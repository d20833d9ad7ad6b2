// Package tui provides the Bubble Tea integration for the strategy
// platform. It drives the fixed-timestep loop from terminal frame
// messages and renders read-only simulation snapshots.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent once per host frame and carries the frame timestamp.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends frame messages at the
// given interval.
func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
