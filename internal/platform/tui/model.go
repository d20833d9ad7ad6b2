package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-strategy/internal/scheduler"
	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/storage"
	"github.com/vovakirdan/tui-strategy/internal/theme"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	winnerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// WatchOptions carries the session identity the model needs for the
// status line and for persisting finished sessions.
type WatchOptions struct {
	Seed      int64
	ThemeName string
	Store     *storage.Store // nil disables persistence

	// ViewWidth and ViewHeight seed the viewport before the first
	// window size message arrives.
	ViewWidth  int
	ViewHeight int
}

// WatchModel is the Bubble Tea model for observing a live session. It
// owns the loop and drives it once per frame message; all reads go
// through snapshots.
type WatchModel struct {
	loop    *scheduler.Loop
	session *sim.Simulation
	th      theme.Descriptor
	opts    WatchOptions

	bars [2]progress.Model

	viewW, viewH int
	quitting     bool
	saved        bool
}

// NewWatchModel wires a session and its loop into a watchable model. The
// loop must already be initialized and started.
func NewWatchModel(loop *scheduler.Loop, session *sim.Simulation, th theme.Descriptor, opts WatchOptions) WatchModel {
	return WatchModel{
		loop:    loop,
		session: session,
		th:      th,
		opts:    opts,
		viewW:   opts.ViewWidth,
		viewH:   opts.ViewHeight,
		bars: [2]progress.Model{
			progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
			progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		},
	}
}

// Init starts the frame message stream.
func (m WatchModel) Init() tea.Cmd {
	return frameCmd(m.loop.FrameInterval())
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.viewW = msg.Width
		m.viewH = msg.Height
		for i := range m.bars {
			m.bars[i].Width = 24
		}
		return m, nil

	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.loop.Stop()
		//nolint:errcheck // Best-effort teardown on the way out
		m.loop.Cleanup()
		return m, tea.Quit
	case "p", " ", "esc":
		if m.loop.State() == scheduler.StatePaused {
			m.loop.Resume()
		} else {
			m.loop.Pause()
		}
	}
	return m, nil
}

// handleFrame advances the loop by one host frame.
func (m WatchModel) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	m.loop.Frame(now)

	snap := m.session.Snapshot()
	if snap.Winner >= 0 && !m.saved {
		m.saveSession(snap)
		m.saved = true
	}

	if m.loop.State() == scheduler.StateStopped {
		m.quitting = true
		return m, tea.Quit
	}
	return m, frameCmd(m.loop.FrameInterval())
}

// saveSession persists a decided session. Best effort; watching
// continues regardless.
func (m *WatchModel) saveSession(snap sim.Snapshot) {
	if m.opts.Store == nil {
		return
	}
	//nolint:errcheck // Best-effort save
	m.opts.Store.SaveSession(storage.SessionRecord{
		Seed:          m.opts.Seed,
		Theme:         m.opts.ThemeName,
		Width:         snap.Width,
		Height:        snap.Height,
		Ticks:         snap.Tick,
		FinalChecksum: m.session.Checksum(),
		Winner:        snap.Winner,
		DurationSecs:  snap.Elapsed,
	})
}

// View renders the map, the status line, and per-player progress bars.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.session.Snapshot()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  seed %d  %dx%d",
		m.opts.ThemeName, m.opts.Seed, snap.Width, snap.Height)))
	sb.WriteRune('\n')

	// Leave room for title, status, and two progress lines.
	mapH := m.viewH - 4
	sb.WriteString(RenderMap(snap, m.th, m.viewW, mapH))
	sb.WriteRune('\n')

	stats := m.loop.Stats()
	status := fmt.Sprintf("tick %d  %.1fs  fps %.0f  ups %.0f  [p]ause [q]uit",
		snap.Tick, snap.Elapsed, stats.FPS, stats.UPS)
	sb.WriteString(statusStyle.Render(status))
	sb.WriteRune('\n')

	for player := 0; player < 2; player++ {
		sb.WriteString(fmt.Sprintf("P%d %6.0f ", player, snap.Stockpiles[player]))
		sb.WriteString(m.bars[player].ViewAs(snap.WinProgress[player]))
		sb.WriteRune('\n')
	}

	switch {
	case snap.Winner >= 0:
		sb.WriteString(winnerStyle.Render(fmt.Sprintf("player %d wins", snap.Winner)))
	case m.loop.State() == scheduler.StatePaused:
		sb.WriteString(pausedStyle.Render("paused"))
	}

	return sb.String()
}

// Run starts the Bubble Tea program for a local terminal session.
func Run(loop *scheduler.Loop, session *sim.Simulation, th theme.Descriptor, opts WatchOptions) error {
	model := NewWatchModel(loop, session, th, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
