package game

import "fmt"

// Board holds the locked cells of a fixed-size grid. The locked-cell map is
// the only durable game state; render grids are derived from it.
type Board struct {
	width  int
	height int
	locked map[Point]Color
}

func NewBoard(width, height int) *Board {
	return &Board{
		width:  width,
		height: height,
		locked: make(map[Point]Color),
	}
}

func (b *Board) Width() int { return b.width }
func (b *Board) Height() int { return b.height }

// IsOccupied reports whether (x, y) holds a locked cell. Rows above the
// board are never occupied.
func (b *Board) IsOccupied(x, y int) bool {
	if y < 0 {
		return false
	}
	_, ok := b.locked[Point{x, y}]
	return ok
}

func (b *Board) ColorAt(x, y int) (Color, bool) {
	c, ok := b.locked[Point{x, y}]
	return c, ok
}

func (b *Board) IsRowFull(y int) bool {
	for x := 0; x < b.width; x++ {
		if !b.IsOccupied(x, y) {
			return false
		}
	}
	return true
}

// Lock writes cells into the board with the given color. Cells above row 0
// cannot be stored; they are dropped and Lock reports true. Any other cell
// outside the grid is a caller bug and panics.
func (b *Board) Lock(cells []Point, color Color) (overflow bool) {
	for _, c := range cells {
		if c.X < 0 || c.X >= b.width || c.Y >= b.height {
			panic(fmt.Sprintf("game: lock outside board at (%d,%d)", c.X, c.Y))
		}
		if c.Y < 0 {
			overflow = true
			continue
		}
		b.locked[c] = color
	}
	return overflow
}

// ClearFullRows removes every full row and compacts the rows above in one
// pass: each surviving cell drops by the number of cleared rows below it.
func (b *Board) ClearFullRows() int {
	full := make([]bool, b.height)
	cleared := 0
	for y := 0; y < b.height; y++ {
		if b.IsRowFull(y) {
			full[y] = true
			cleared++
		}
	}
	if cleared == 0 {
		return 0
	}

	// below[y] is the number of full rows strictly below row y.
	below := make([]int, b.height)
	for y := b.height - 2; y >= 0; y-- {
		below[y] = below[y+1]
		if full[y+1] {
			below[y]++
		}
	}

	next := make(map[Point]Color, len(b.locked))
	for p, c := range b.locked {
		if full[p.Y] {
			continue
		}
		next[Point{p.X, p.Y + below[p.Y]}] = c
	}
	b.locked = next
	return cleared
}

// ToppedOut reports whether any locked cell sits in the top row.
func (b *Board) ToppedOut() bool {
	for p := range b.locked {
		if p.Y < 1 {
			return true
		}
	}
	return false
}

func (b *Board) Reset() {
	b.locked = make(map[Point]Color)
}

// Cells returns a copy of the locked-cell map.
func (b *Board) Cells() map[Point]Color {
	out := make(map[Point]Color, len(b.locked))
	for p, c := range b.locked {
		out[p] = c
	}
	return out
}

// Grid renders the locked cells as a [height][width] matrix with the given
// piece, if any, drawn on top. Piece cells above the board are skipped.
func (b *Board) Grid(overlay *Piece) [][]Color {
	grid := make([][]Color, b.height)
	for y := range grid {
		grid[y] = make([]Color, b.width)
	}
	for p, c := range b.locked {
		grid[p.Y][p.X] = c
	}
	if overlay != nil {
		color := overlay.Color()
		for _, p := range overlay.Cells() {
			if p.Y >= 0 && p.Y < b.height && p.X >= 0 && p.X < b.width {
				grid[p.Y][p.X] = color
			}
		}
	}
	return grid
}
