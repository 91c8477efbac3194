package tui

import (
	"time"

	"github.com/hersh/blockfall/internal/game"
)

// Driver is where the model sends intents and gets frames from. A local
// driver steps an engine in-process; a network client mirrors a remote one.
type Driver interface {
	Enqueue(in game.Intent)
	// Frame advances by elapsed and returns the state to draw. ok is false
	// until a state is available.
	Frame(elapsed time.Duration) (snap game.Snapshot, ok bool)
	Reset()
	// Err reports a fatal driver failure, such as a lost connection.
	Err() error
}

// LocalDriver runs a game on the UI goroutine.
type LocalDriver struct {
	game *game.Game
}

func NewLocalDriver(g *game.Game) *LocalDriver {
	return &LocalDriver{game: g}
}

func (d *LocalDriver) Enqueue(in game.Intent) { d.game.Enqueue(in) }
func (d *LocalDriver) Reset() { d.game.Reset() }
func (d *LocalDriver) Err() error { return nil }

func (d *LocalDriver) Frame(elapsed time.Duration) (game.Snapshot, bool) {
	return d.game.Frame(elapsed), true
}
