package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellStatus int8

const (
	Unknown      CellStatus = -2
	Flagged      CellStatus = -1
	Mine         CellStatus = 64
	ExplodedMine CellStatus = 65
	/*
	 * 0 to 8 mean the cell is open and carry its surrounding mine count.
	 * Mine is a mine revealed after the game was lost; ExplodedMine is
	 * the one the player opened.
	 */
)

func (s CellStatus) String() string {
	switch {
	case s == Unknown:
		return "#"
	case s == Flagged:
		return "F"
	case s == 0:
		return "."
	case 1 <= s && s <= 8:
		return strconv.Itoa(int(s))
	case s == Mine:
		return "*"
	case s == ExplodedMine:
		return "X"
	default:
		return "!"
	}
}

// Open reports whether the status is a revealed safe cell.
func (s CellStatus) Open() bool {
	return 0 <= s && s <= 8
}

type Grid []CellStatus

// ToString renders g as rows of width cells. A non-positive width renders
// nothing.
func (g Grid) ToString(width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
