package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOccupied(t *testing.T) {
	b := NewBoard(10, 20)
	red := Color{R: 255}
	b.Lock([]Point{{3, 4}}, red)

	assert.True(t, b.IsOccupied(3, 4))
	assert.False(t, b.IsOccupied(4, 4))
	assert.False(t, b.IsOccupied(3, -1))

	c, ok := b.ColorAt(3, 4)
	require.True(t, ok)
	assert.Equal(t, red, c)
}

func TestIsRowFull(t *testing.T) {
	b := NewBoard(10, 20)
	fillRow(b, 19, 4)
	assert.False(t, b.IsRowFull(19))

	b.Lock([]Point{{4, 19}}, Color{G: 1})
	assert.True(t, b.IsRowFull(19))
	assert.False(t, b.IsRowFull(18))
}

func TestLockDropsCellsAboveBoard(t *testing.T) {
	b := NewBoard(10, 20)
	overflow := b.Lock([]Point{{0, -1}, {0, 0}}, Color{B: 9})

	assert.True(t, overflow)
	assert.Equal(t, map[Point]Color{{0, 0}: {B: 9}}, b.Cells())
}

func TestLockOutsideBoardPanics(t *testing.T) {
	b := NewBoard(10, 20)
	assert.Panics(t, func() { b.Lock([]Point{{10, 5}}, Color{R: 1}) })
	assert.Panics(t, func() { b.Lock([]Point{{-1, 5}}, Color{R: 1}) })
	assert.Panics(t, func() { b.Lock([]Point{{0, 20}}, Color{R: 1}) })
}

func TestClearFullRowsNoneFull(t *testing.T) {
	b := NewBoard(10, 20)
	fillRow(b, 19, 0)
	before := b.Cells()

	assert.Equal(t, 0, b.ClearFullRows())
	assert.Empty(t, cmp.Diff(before, b.Cells()))
}

// Two non-adjacent full rows must clear in one pass, each surviving cell
// falling by the number of cleared rows beneath it.
func TestClearFullRowsNonAdjacent(t *testing.T) {
	b := NewBoard(10, 20)
	// Rows counted from the floor: r=0 is y=19.
	y := func(r int) int { return b.Height() - 1 - r }

	fillRow(b, y(3))
	fillRow(b, y(7))

	gray := Color{R: 50, G: 50, B: 50}
	b.Lock([]Point{
		{0, y(0)}, {1, y(2)}, // beneath both cleared rows
		{2, y(5)}, {3, y(6)}, // between them
		{4, y(10)}, {5, y(19)}, // above both
	}, gray)

	require.Equal(t, 2, b.ClearFullRows())

	want := map[Point]Color{
		{0, y(0)}:      gray,
		{1, y(2)}:      gray,
		{2, y(5) + 1}:  gray,
		{3, y(6) + 1}:  gray,
		{4, y(10) + 2}: gray,
		{5, y(19) + 2}: gray,
	}
	if diff := cmp.Diff(want, b.Cells()); diff != "" {
		t.Errorf("locked cells mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, b.IsRowFull(y(3)))
	assert.False(t, b.IsRowFull(y(7)))
}

func TestClearFullRowsFourAtOnce(t *testing.T) {
	b := NewBoard(10, 20)
	for y := 16; y < 20; y++ {
		fillRow(b, y)
	}
	b.Lock([]Point{{9, 15}}, Color{R: 7})

	assert.Equal(t, 4, b.ClearFullRows())
	assert.Equal(t, map[Point]Color{{9, 19}: {R: 7}}, b.Cells())
}

func TestToppedOut(t *testing.T) {
	b := NewBoard(10, 20)
	b.Lock([]Point{{0, 1}, {5, 19}}, Color{R: 1})
	assert.False(t, b.ToppedOut())

	b.Lock([]Point{{0, 0}}, Color{R: 1})
	assert.True(t, b.ToppedOut())
}

func TestResetEmptiesBoard(t *testing.T) {
	b := NewBoard(10, 20)
	fillRow(b, 10)
	b.Reset()
	assert.Empty(t, b.Cells())
}

func TestGridOverlaysPiece(t *testing.T) {
	b := NewBoard(10, 20)
	gray := Color{R: 9, G: 9, B: 9}
	b.Lock([]Point{{0, 19}}, gray)

	o := NewPiece(ShapeOf(KindO), 4, -1)
	grid := b.Grid(o)

	require.Len(t, grid, 20)
	require.Len(t, grid[0], 10)
	assert.Equal(t, gray, grid[19][0])
	assert.Equal(t, o.Color(), grid[0][4])
	assert.Equal(t, o.Color(), grid[0][5])
	assert.True(t, grid[1][4].IsEmpty())

	// Rendering never touches the locked map.
	assert.Len(t, b.Cells(), 1)
}
