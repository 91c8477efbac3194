package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hersh/blockfall/internal/game"
)

const (
	blockChar = "██"
	ghostChar = "[]"
	emptyChar = "  "
	ghostFg   = "244"
)

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Align(lipgloss.Center)
)

func cellStyle(c game.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

// RenderBoard draws the snapshot grid, optionally with the landing ghost in
// the empty cells beneath the current piece.
func RenderBoard(snap game.Snapshot, showGhost bool) string {
	ghost := make(map[game.Point]bool, len(snap.Ghost))
	if showGhost {
		for _, p := range snap.Ghost {
			ghost[p] = true
		}
	}

	var sb strings.Builder
	for y, row := range snap.Grid {
		for x, c := range row {
			switch {
			case !c.IsEmpty():
				sb.WriteString(cellStyle(c).Render(blockChar))
			case ghost[game.Point{X: x, Y: y}]:
				sb.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(ghostFg)).
					Render(ghostChar))
			default:
				sb.WriteString(emptyChar)
			}
		}
		if y < len(snap.Grid)-1 {
			sb.WriteString("\n")
		}
	}

	return boardStyle.Render(sb.String())
}

// RenderPiece draws a kind in its spawn orientation.
func RenderPiece(k *game.Kind) string {
	if k == nil {
		return "Empty"
	}
	shape := game.ShapeOf(*k)
	if shape == nil {
		return "Empty"
	}

	style := cellStyle(shape.Color())
	cells := shape.CellsAt(0)

	var sb strings.Builder
	for y, row := range cells {
		for _, filled := range row {
			if filled {
				sb.WriteString(style.Render(blockChar))
			} else {
				sb.WriteString(emptyChar)
			}
		}
		if y < len(cells)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func RenderInfo(playerName string, snap game.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("BLOCKFALL") + "\n\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Player: %s", playerName)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", snap.Score)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines: %d", snap.Lines)) + "\n\n")

	next := snap.Next
	sb.WriteString(titleStyle.Render("NEXT") + "\n")
	sb.WriteString(RenderPiece(&next) + "\n\n")

	sb.WriteString(titleStyle.Render("HOLD") + "\n")
	sb.WriteString(RenderPiece(snap.Held) + "\n")

	return sb.String()
}

func RenderWelcome() string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("51")).
		Align(lipgloss.Center).
		Render(`
╔══════════════════════════════╗
║       B L O C K F A L L      ║
║      Falling Blocks TUI      ║
╚══════════════════════════════╝

   Press ENTER to start
   Press Q to quit
`)
}

func RenderGameOver(score, lines int) string {
	return gameOverStyle.Render(fmt.Sprintf(
		"\n\n\n     GAME OVER     \n     Score: %d     \n     Lines: %d     \n\n\n", score, lines)) +
		"\n\n" + infoStyle.Render("R to play again, ENTER for menu, Q to quit")
}

func RenderError(err error) string {
	return gameOverStyle.Render(err.Error()) + "\n" +
		infoStyle.Render("Press Ctrl+C to exit.")
}
