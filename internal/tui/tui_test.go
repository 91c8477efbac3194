package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hersh/blockfall/internal/game"
)

// only deals a single kind.
type only game.Kind

func (o only) Next() game.Kind { return game.Kind(o) }

func newLocalModel(t *testing.T, k game.Kind) Model {
	t.Helper()
	g, err := game.New(game.DefaultConfig(), game.WithRandomizer(only(k)))
	require.NoError(t, err)
	return NewModel("tester", NewLocalDriver(g), Options{FrameRate: 60, ShowGhost: true})
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func frame(m Model, at time.Time) (Model, tea.Cmd) {
	next, cmd := m.Update(FrameMsg(at))
	return next.(Model), cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapIntents(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want game.Intent
	}{
		{keyLeft, game.IntentMoveLeft},
		{runes("h"), game.IntentMoveLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, game.IntentMoveRight},
		{tea.KeyMsg{Type: tea.KeyDown}, game.IntentSoftDrop},
		{tea.KeyMsg{Type: tea.KeyUp}, game.IntentRotateCW},
		{runes("x"), game.IntentRotateCW},
		{keySpace, game.IntentHardDrop},
		{runes("c"), game.IntentHold},
		{runes("z"), game.IntentHold},
	}
	for _, tc := range tests {
		got, ok := km.Intent(tc.msg)
		assert.True(t, ok, tc.msg.String())
		assert.Equal(t, tc.want, got, tc.msg.String())
	}

	_, ok := km.Intent(runes("q"))
	assert.False(t, ok)
}

func TestStartAndHardDrop(t *testing.T) {
	m := newLocalModel(t, game.KindO)
	assert.Equal(t, ScreenWelcome, m.Screen())

	m, cmd := press(t, m, keyEnter)
	require.Equal(t, ScreenPlaying, m.Screen())
	assert.NotNil(t, cmd, "start schedules a frame")

	now := time.Now()
	m, _ = frame(m, now)
	snap, ok := m.Snapshot()
	require.True(t, ok)
	assert.False(t, snap.Grid[0][5].IsEmpty(), "O spawns at the top")

	m, _ = press(t, m, keyLeft)
	m, _ = press(t, m, keySpace)
	m, cmd = frame(m, now.Add(time.Millisecond))
	assert.NotNil(t, cmd)

	snap, _ = m.Snapshot()
	o := game.ShapeOf(game.KindO).Color()
	assert.Equal(t, o, snap.Grid[19][4])
	assert.Equal(t, o, snap.Grid[18][5])
	assert.Contains(t, m.View(), "Score: 0")
}

func TestQuitIgnoredWhilePlaying(t *testing.T) {
	m := newLocalModel(t, game.KindT)
	m, _ = press(t, m, keyEnter)

	m, cmd := press(t, m, runes("q"))
	assert.Nil(t, cmd)
	assert.Equal(t, ScreenPlaying, m.Screen())

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestGameOverScreenAndRestart(t *testing.T) {
	m := newLocalModel(t, game.KindO)
	m, _ = press(t, m, keyEnter)

	now := time.Now()
	for i := 0; i < 30 && m.Screen() == ScreenPlaying; i++ {
		m, _ = press(t, m, keySpace)
		now = now.Add(time.Millisecond)
		m, _ = frame(m, now)
	}
	require.Equal(t, ScreenGameOver, m.Screen())
	assert.Contains(t, m.View(), "GAME OVER")

	// Frames after game over are dropped.
	_, cmd := frame(m, now.Add(time.Second))
	assert.Nil(t, cmd)

	m, _ = press(t, m, runes("r"))
	require.Equal(t, ScreenPlaying, m.Screen())
	m, _ = frame(m, time.Now())
	snap, ok := m.Snapshot()
	require.True(t, ok)
	assert.False(t, snap.GameOver)
	assert.Equal(t, 0, snap.Score)
}

type brokenDriver struct{ LocalDriver }

func (brokenDriver) Err() error { return errors.New("disconnected from server") }

func TestDriverErrorIsShown(t *testing.T) {
	g, err := game.New(game.DefaultConfig())
	require.NoError(t, err)
	m := NewModel("tester", &brokenDriver{LocalDriver{game: g}}, Options{})
	m, _ = press(t, m, keyEnter)

	m, cmd := frame(m, time.Now())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "disconnected")
}

func TestRenderBoard(t *testing.T) {
	red := game.Color{R: 255}
	snap := game.Snapshot{
		Width:  3,
		Height: 2,
		Grid: [][]game.Color{
			{game.Empty, red, game.Empty},
			{game.Empty, game.Empty, game.Empty},
		},
		Ghost: []game.Point{{X: 1, Y: 1}},
	}

	withGhost := RenderBoard(snap, true)
	assert.Equal(t, 1, strings.Count(withGhost, blockChar))
	assert.Equal(t, 1, strings.Count(withGhost, ghostChar))

	assert.NotContains(t, RenderBoard(snap, false), ghostChar)
}

func TestRenderPiece(t *testing.T) {
	assert.Equal(t, "Empty", RenderPiece(nil))

	i := game.KindI
	assert.Equal(t, 4, strings.Count(RenderPiece(&i), blockChar))

	tk := game.KindT
	out := RenderPiece(&tk)
	assert.Equal(t, 4, strings.Count(out, blockChar))
	assert.Len(t, strings.Split(out, "\n"), 2)
}

func TestRenderInfo(t *testing.T) {
	held := game.KindS
	out := RenderInfo("ada", game.Snapshot{Score: 30, Lines: 3, Next: game.KindO, Held: &held})
	assert.Contains(t, out, "Player: ada")
	assert.Contains(t, out, "Score: 30")
	assert.Contains(t, out, "Lines: 3")
	assert.NotContains(t, out, "Empty")

	out = RenderInfo("ada", game.Snapshot{Next: game.KindO})
	assert.Contains(t, out, "Empty")
}
