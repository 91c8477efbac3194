package game

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

const (
	DefaultWidth        = 10
	DefaultHeight       = 20
	DefaultFallInterval = 400 * time.Millisecond

	// SpawnX and SpawnY are the anchor every new or swapped-in piece starts at.
	SpawnX = 5
	SpawnY = 0

	// PointsPerRow is awarded for each row removed by a single lock.
	PointsPerRow = 10
)

// Config fixes the dimensions and timing of one engine instance.
type Config struct {
	Width        int
	Height       int
	FallInterval time.Duration
	Seed         int64
	Randomizer   string
}

func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		FallInterval: DefaultFallInterval,
		Randomizer:   RandomizerUniform,
	}
}

// Validate rejects dimensions no catalog piece could spawn into.
func (c Config) Validate() error {
	var errs []error
	if c.Width < SpawnX+4 {
		errs = append(errs, fmt.Errorf("width %d too small, need at least %d", c.Width, SpawnX+4))
	}
	if c.Height < 4 {
		errs = append(errs, fmt.Errorf("height %d too small, need at least 4", c.Height))
	}
	if c.FallInterval <= 0 {
		errs = append(errs, fmt.Errorf("fall interval must be positive, got %s", c.FallInterval))
	}
	return errors.Join(errs...)
}

// Option customizes a Game at construction.
type Option func(*Game)

// WithRandomizer overrides the randomizer named in Config.
func WithRandomizer(r Randomizer) Option {
	return func(g *Game) { g.rng = r }
}

func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// Game is the single-threaded game-state engine. It owns the board and the
// current, next and held pieces; nothing else mutates them.
type Game struct {
	cfg    Config
	board  *Board
	rng    Randomizer
	logger *log.Logger

	current  *Piece
	next     *Piece
	held     *Piece
	holdUsed bool

	score    int
	lines    int
	over     bool
	fallTime time.Duration
	revision uint64

	intents []Intent
}

func New(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	g := &Game{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		r, err := NewRandomizer(cfg.Randomizer, cfg.Seed)
		if err != nil {
			return nil, fmt.Errorf("invalid engine config: %w", err)
		}
		g.rng = r
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	g.Reset()
	return g, nil
}

// Reset starts a new game on an empty board.
func (g *Game) Reset() {
	if g.board == nil {
		g.board = NewBoard(g.cfg.Width, g.cfg.Height)
	} else {
		g.board.Reset()
	}
	g.current = g.Spawn()
	g.next = g.Spawn()
	g.held = nil
	g.holdUsed = false
	g.score = 0
	g.lines = 0
	g.over = false
	g.fallTime = 0
	g.intents = g.intents[:0]
	g.revision++
}

// Spawn creates a piece of a randomly chosen kind at the spawn anchor.
func (g *Game) Spawn() *Piece {
	return NewPiece(ShapeOf(g.rng.Next()), SpawnX, SpawnY)
}

func (g *Game) Config() Config { return g.cfg }
func (g *Game) Board() *Board { return g.board }
func (g *Game) Score() int { return g.score }
func (g *Game) Lines() int { return g.lines }
func (g *Game) IsGameOver() bool { return g.over }
func (g *Game) HoldUsed() bool { return g.holdUsed }
func (g *Game) Revision() uint64 { return g.revision }
func (g *Game) Current() *Piece { return g.current.clone() }
func (g *Game) Next() *Piece { return g.next.clone() }
func (g *Game) Held() *Piece { return g.held.clone() }

// Tick advances the gravity clock. Once more than one fall interval has
// accumulated the clock restarts and the current piece drops a row, locking
// in place if it cannot. It reports whether a gravity step ran.
func (g *Game) Tick(elapsed time.Duration) bool {
	if g.over {
		return false
	}
	g.fallTime += elapsed
	if g.fallTime <= g.cfg.FallInterval {
		return false
	}
	g.fallTime = 0
	if !g.TryMove(0, 1) {
		g.lockCurrent()
	}
	return true
}

// TryMove offsets the current piece, keeping the move only if the new
// position is valid.
func (g *Game) TryMove(dx, dy int) bool {
	if g.over {
		return false
	}
	g.current.X += dx
	g.current.Y += dy
	if !g.board.IsValid(g.current) {
		g.current.X -= dx
		g.current.Y -= dy
		return false
	}
	g.revision++
	return true
}

// Rotate advances the current piece to its next rotation state in place.
// There are no wall kicks: the rotation fits where it is or not at all.
func (g *Game) Rotate() bool {
	if g.over {
		return false
	}
	n := g.current.Shape.RotationCount()
	if n == 0 {
		return false
	}
	prev := g.current.Rotation
	g.current.Rotation = (prev + 1) % n
	if !g.board.IsValid(g.current) {
		g.current.Rotation = prev
		return false
	}
	g.revision++
	return true
}

// HardDrop moves the current piece as far down as it goes and locks it.
func (g *Game) HardDrop() {
	if g.over {
		return
	}
	for g.TryMove(0, 1) {
	}
	g.lockCurrent()
}

// Hold stashes the current piece, or swaps it with the stashed one. It is
// allowed once per piece lifetime and reports whether a swap happened.
func (g *Game) Hold() bool {
	if g.over || g.holdUsed {
		return false
	}
	outgoing := g.current
	if g.held == nil {
		g.current = g.next
		g.next = g.Spawn()
	} else {
		g.current = g.held
	}
	g.current.X, g.current.Y, g.current.Rotation = SpawnX, SpawnY, 0
	outgoing.X, outgoing.Y, outgoing.Rotation = SpawnX, SpawnY, 0
	g.held = outgoing
	g.holdUsed = true
	g.revision++
	return true
}

// lockCurrent copies the current piece into the board, promotes the next
// piece, clears rows, scores, and checks for a top-out.
func (g *Game) lockCurrent() int {
	locked := g.current
	overflow := g.board.Lock(locked.Cells(), locked.Color())

	g.current = g.next
	g.next = g.Spawn()
	g.holdUsed = false

	rows := g.board.ClearFullRows()
	g.lines += rows
	g.score += PointsPerRow * rows
	g.revision++

	g.logger.Debug("piece locked", "kind", locked.Kind(), "x", locked.X, "y", locked.Y, "rows", rows, "score", g.score)

	if overflow || g.board.ToppedOut() {
		g.over = true
		g.logger.Info("game over", "score", g.score, "lines", g.lines)
	}
	return rows
}

// Apply performs one intent immediately and reports whether it changed
// the game.
func (g *Game) Apply(in Intent) bool {
	switch in {
	case IntentMoveLeft:
		return g.TryMove(-1, 0)
	case IntentMoveRight:
		return g.TryMove(1, 0)
	case IntentSoftDrop:
		return g.TryMove(0, 1)
	case IntentRotateCW:
		return g.Rotate()
	case IntentHardDrop:
		if g.over {
			return false
		}
		g.HardDrop()
		return true
	case IntentHold:
		return g.Hold()
	}
	return false
}

// Enqueue buffers an intent until the next Frame.
func (g *Game) Enqueue(in Intent) {
	g.intents = append(g.intents, in)
}

// Frame runs one frame: gravity first, then the queued intents in arrival
// order, then a snapshot of the result.
func (g *Game) Frame(elapsed time.Duration) Snapshot {
	g.Tick(elapsed)
	for _, in := range g.intents {
		g.Apply(in)
	}
	g.intents = g.intents[:0]
	return g.Snapshot()
}
