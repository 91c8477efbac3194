package game

// IsValid reports whether every cell of p is inside the side walls and
// either above the board or on a free in-bounds cell. Cells above row 0 are
// always accepted so pieces can spawn and rotate against the ceiling.
// It has no side effects.
func (b *Board) IsValid(p *Piece) bool {
	if p == nil || p.Shape == nil || p.Shape.RotationCount() == 0 {
		return false
	}
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= b.width {
			return false
		}
		if c.Y < 0 {
			continue
		}
		if c.Y >= b.height || b.IsOccupied(c.X, c.Y) {
			return false
		}
	}
	return true
}
