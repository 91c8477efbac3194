package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/blockfall/internal/game"
)

// FrameMsg drives one engine frame.
type FrameMsg time.Time

type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenPlaying
	ScreenGameOver
)

// Options tunes the model.
type Options struct {
	FrameRate int
	ShowGhost bool
}

type Model struct {
	screen     Screen
	playerName string
	driver     Driver
	opts       Options

	snap      game.Snapshot
	hasSnap   bool
	lastFrame time.Time

	keys KeyMap
	help help.Model

	width  int
	height int
	err    error
}

// NewModel creates a model playing through driver.
func NewModel(playerName string, driver Driver, opts Options) Model {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	return Model{
		screen:     ScreenWelcome,
		playerName: playerName,
		driver:     driver,
		opts:       opts,
		keys:       DefaultKeyMap(),
		help:       help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FrameRate), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// Screen returns the current screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Snapshot returns the last frame drawn.
func (m Model) Snapshot() (game.Snapshot, bool) {
	return m.snap, m.hasSnap
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case FrameMsg:
		return m.handleFrame(time.Time(msg))
	}
	return m, nil
}

// --- Key handlers ---

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.screen {
	case ScreenWelcome:
		switch {
		case key.Matches(msg, m.keys.Start):
			return m.start()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	case ScreenPlaying:
		// q is ignored during play
		if in, ok := m.keys.Intent(msg); ok {
			m.driver.Enqueue(in)
		}
	case ScreenGameOver:
		switch {
		case key.Matches(msg, m.keys.Restart):
			return m.start()
		case key.Matches(msg, m.keys.Start):
			m.screen = ScreenWelcome
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) start() (tea.Model, tea.Cmd) {
	m.driver.Reset()
	m.screen = ScreenPlaying
	m.hasSnap = false
	m.lastFrame = time.Now()
	return m, m.frameCmd()
}

// --- Frame handler ---

func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.screen != ScreenPlaying {
		return m, nil
	}
	if err := m.driver.Err(); err != nil {
		m.err = err
		return m, nil
	}

	elapsed := now.Sub(m.lastFrame)
	if elapsed < 0 {
		elapsed = 0
	}
	m.lastFrame = now

	if snap, ok := m.driver.Frame(elapsed); ok {
		m.snap = snap
		m.hasSnap = true
		if snap.GameOver {
			m.screen = ScreenGameOver
			return m, nil
		}
	}
	return m, m.frameCmd()
}

// --- View ---

func (m Model) View() string {
	if m.err != nil {
		return m.renderCentered(RenderError(m.err))
	}

	switch m.screen {
	case ScreenWelcome:
		return m.renderCentered(RenderWelcome())
	case ScreenPlaying:
		return m.renderPlaying()
	case ScreenGameOver:
		return m.renderCentered(RenderGameOver(m.snap.Score, m.snap.Lines))
	}
	return ""
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) renderPlaying() string {
	if !m.hasSnap {
		return m.renderCentered("Waiting for game...")
	}

	leftPanel := lipgloss.NewStyle().
		Width(24).
		Render(RenderInfo(m.playerName, m.snap))

	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(RenderBoard(m.snap, m.opts.ShowGhost))

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, centerPanel),
		m.help.View(m.keys),
	)
	return m.renderCentered(mainContent)
}
