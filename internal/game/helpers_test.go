package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sequence deals kinds in a fixed order, repeating once exhausted.
type sequence struct {
	kinds []Kind
	pos   int
}

func (s *sequence) Next() Kind {
	k := s.kinds[s.pos%len(s.kinds)]
	s.pos++
	return k
}

func newTestGame(t *testing.T, kinds ...Kind) *Game {
	t.Helper()
	if len(kinds) == 0 {
		kinds = []Kind{KindO}
	}
	g, err := New(DefaultConfig(), WithRandomizer(&sequence{kinds: kinds}))
	require.NoError(t, err)
	return g
}

// fillRow locks every cell of row y except the listed columns.
func fillRow(b *Board, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	var cells []Point
	for x := 0; x < b.Width(); x++ {
		if !skip[x] {
			cells = append(cells, Point{x, y})
		}
	}
	b.Lock(cells, Color{R: 200, G: 200, B: 200})
}
