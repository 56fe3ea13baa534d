package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/minesweeper/internal/mines"
)

type styles struct {
	header   lipgloss.Style
	index    lipgloss.Style
	unknown  lipgloss.Style
	flag     lipgloss.Style
	empty    lipgloss.Style
	numbers  [9]lipgloss.Style
	mine     lipgloss.Style
	exploded lipgloss.Style
	won      lipgloss.Style
	lost     lipgloss.Style
	err      lipgloss.Style
}

// Classic number colors: blue, green, red, navy, maroon, teal, black, gray.
var numberColors = [9]string{"", "#0000FF", "#008000", "#FF0000", "#000080", "#800000", "#008080", "#000000", "#808080"}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	s := styles{
		header:   r.NewStyle().Bold(true),
		index:    r.NewStyle().Faint(true),
		unknown:  r.NewStyle().Foreground(lipgloss.Color("#A0A0A0")),
		flag:     r.NewStyle().Foreground(lipgloss.Color("#FF4500")).Bold(true),
		empty:    r.NewStyle().Faint(true),
		mine:     r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		exploded: r.NewStyle().Background(lipgloss.Color("#FF0000")).Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
		won:      r.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true),
		lost:     r.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
	for i, c := range numberColors {
		s.numbers[i] = r.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
	}
	return s
}

func (s styles) cell(status mines.CellStatus) string {
	glyph := status.String()
	switch {
	case status == mines.Unknown:
		return s.unknown.Render(glyph)
	case status == mines.Flagged:
		return s.flag.Render(glyph)
	case status == 0:
		return s.empty.Render(glyph)
	case status.Open():
		return s.numbers[status].Render(glyph)
	case status == mines.Mine:
		return s.mine.Render(glyph)
	case status == mines.ExplodedMine:
		return s.exploded.Render(glyph)
	}
	return glyph
}

func digits(n int) int {
	return len(fmt.Sprint(n))
}

// renderBoard draws the grid with row indices on the left and column
// indices on top.
func (s styles) renderBoard(grid mines.Grid, rows, cols int) string {
	rowWidth := digits(rows - 1)
	colWidth := digits(cols-1) + 1

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowWidth))
	for col := range cols {
		b.WriteString(s.index.Render(fmt.Sprintf("%*d", colWidth, col)))
	}
	b.WriteString("\n")

	for row := range rows {
		b.WriteString(s.index.Render(fmt.Sprintf("%*d", rowWidth, row)))
		for col := range cols {
			b.WriteString(strings.Repeat(" ", colWidth-1))
			b.WriteString(s.cell(grid[row*cols+col]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s styles) renderStatus(d mines.Difficulty, elapsed time.Duration, minesRemaining int) string {
	return s.header.Render(fmt.Sprintf(
		"%s  Time: %d  Mines: %d", d.Name, int(elapsed/time.Second), minesRemaining,
	))
}
