package game

// Point is an absolute board coordinate. Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is a live, falling piece. X and Y anchor the top-left corner of the
// current rotation matrix; Rotation is taken modulo the shape's state count.
type Piece struct {
	Shape    *Shape
	X, Y     int
	Rotation int
}

func NewPiece(shape *Shape, x, y int) *Piece {
	return &Piece{Shape: shape, X: x, Y: y}
}

func (p *Piece) Kind() Kind {
	return p.Shape.Kind()
}

func (p *Piece) Color() Color {
	return p.Shape.Color()
}

// Cells returns the absolute positions the piece occupies.
func (p *Piece) Cells() []Point {
	m := p.Shape.CellsAt(p.Rotation)
	cells := make([]Point, 0, 4)
	for i, row := range m {
		for j, filled := range row {
			if filled {
				cells = append(cells, Point{X: p.X + j, Y: p.Y + i})
			}
		}
	}
	return cells
}

// clone returns an independent copy sharing the immutable shape.
func (p *Piece) clone() *Piece {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
