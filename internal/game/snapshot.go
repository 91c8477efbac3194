package game

// Snapshot is a read-only view of the engine for a renderer. Grid is
// [Height][Width] with the current piece already drawn over the locked cells.
type Snapshot struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Grid     [][]Color `json:"grid"`
	Score    int       `json:"score"`
	Lines    int       `json:"lines"`
	Held     *Kind     `json:"held,omitempty"`
	Next     Kind      `json:"next"`
	GameOver bool      `json:"game_over"`

	// Ghost is where the current piece would land. Empty once the game is over.
	Ghost []Point `json:"ghost,omitempty"`
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Width:    g.cfg.Width,
		Height:   g.cfg.Height,
		Grid:     g.board.Grid(g.current),
		Score:    g.score,
		Lines:    g.lines,
		Next:     g.next.Kind(),
		GameOver: g.over,
	}
	if g.held != nil {
		k := g.held.Kind()
		s.Held = &k
	}
	if !g.over {
		s.Ghost = g.ghostCells()
	}
	return s
}

// GhostY returns the row the current piece would land on if hard dropped.
func (g *Game) GhostY() int {
	ghost := g.current.clone()
	for {
		ghost.Y++
		if !g.board.IsValid(ghost) {
			return ghost.Y - 1
		}
	}
}

// ghostCells returns the cells of the current piece at its landing row.
func (g *Game) ghostCells() []Point {
	ghost := g.current.clone()
	ghost.Y = g.GhostY()
	return ghost.Cells()
}
