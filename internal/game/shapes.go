package game

import (
	"fmt"
	"strings"
)

// Kind identifies one of the seven piece kinds.
type Kind int

const (
	KindI Kind = iota
	KindL
	KindJ
	KindO
	KindS
	KindT
	KindZ
)

// NumKinds is the size of the shape catalog.
const NumKinds = 7

var kindNames = [NumKinds]string{"I", "L", "J", "O", "S", "T", "Z"}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a single-letter name ("I", "t", ...) back to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= NumKinds {
		return nil, fmt.Errorf("invalid piece kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Color is an RGB cell color. The zero value marks an empty cell.
type Color struct {
	R, G, B uint8
}

// Empty is the color of an unoccupied cell.
var Empty = Color{}

func (c Color) IsEmpty() bool {
	return c == Empty
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(text), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("invalid color %q: %w", string(text), err)
	}
	*c = Color{R: r, G: g, B: b}
	return nil
}

// Shape is an immutable catalog entry: a fixed, ordered set of rotation
// states and the color every cell of the shape is drawn in.
type Shape struct {
	kind      Kind
	rotations [][][]bool
	color     Color
}

func (s *Shape) Kind() Kind {
	return s.kind
}

func (s *Shape) Color() Color {
	return s.color
}

func (s *Shape) RotationCount() int {
	return len(s.rotations)
}

// CellsAt returns the occupancy matrix for a rotation index, taken modulo
// the number of states. It returns nil for a shape with no states.
// Callers must not modify the result.
func (s *Shape) CellsAt(rotation int) [][]bool {
	n := len(s.rotations)
	if n == 0 {
		return nil
	}
	rotation %= n
	if rotation < 0 {
		rotation += n
	}
	return s.rotations[rotation]
}

// matrix builds an occupancy matrix from rows where '#' is a filled cell.
func matrix(rows ...string) [][]bool {
	m := make([][]bool, len(rows))
	for i, row := range rows {
		m[i] = make([]bool, len(row))
		for j, ch := range row {
			m[i][j] = ch == '#'
		}
	}
	return m
}

var catalog = [NumKinds]*Shape{
	{
		kind:  KindI,
		color: Color{0, 255, 255},
		rotations: [][][]bool{
			matrix("####"),
			matrix("#", "#", "#", "#"),
		},
	},
	{
		kind:  KindL,
		color: Color{255, 165, 0},
		rotations: [][][]bool{
			matrix("..#", "###"),
			matrix("#.", "#.", "##"),
			matrix("###", "#.."),
			matrix("##", ".#", ".#"),
		},
	},
	{
		kind:  KindJ,
		color: Color{0, 0, 255},
		rotations: [][][]bool{
			matrix("#..", "###"),
			matrix("##", "#.", "#."),
			matrix("###", "..#"),
			matrix(".#", ".#", "##"),
		},
	},
	{
		kind:  KindO,
		color: Color{255, 255, 0},
		rotations: [][][]bool{
			matrix("##", "##"),
		},
	},
	{
		kind:  KindS,
		color: Color{0, 255, 0},
		rotations: [][][]bool{
			matrix(".##", "##."),
			matrix("#.", "##", ".#"),
		},
	},
	{
		kind:  KindT,
		color: Color{128, 0, 128},
		rotations: [][][]bool{
			matrix(".#.", "###"),
			matrix("#.", "##", "#."),
			matrix("###", ".#."),
			matrix(".#", "##", ".#"),
		},
	},
	{
		kind:  KindZ,
		color: Color{255, 0, 0},
		rotations: [][][]bool{
			matrix("##.", ".##"),
			matrix(".#", "##", "#."),
		},
	},
}

// AllShapes returns the seven catalog shapes in Kind order.
func AllShapes() []*Shape {
	shapes := make([]*Shape, NumKinds)
	copy(shapes, catalog[:])
	return shapes
}

// ShapeOf returns the catalog shape for a kind, or nil for an unknown kind.
func ShapeOf(k Kind) *Shape {
	if k < 0 || int(k) >= NumKinds {
		return nil
	}
	return catalog[k]
}
