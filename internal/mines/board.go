package mines

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a dense rows x cols grid of cells stored in row-major order.
// Mines are placed at most once per board.
type Board struct {
	rows, cols  int
	cells       []Cell
	minesPlaced bool
}

func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	b := &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
	return b, nil
}

func (b *Board) Rows() int {
	return b.rows
}

func (b *Board) Cols() int {
	return b.cols
}

func (b *Board) MinesPlaced() bool {
	return b.minesPlaced
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Cell returns the cell at row, col. ok is false when the coordinates are
// outside the board.
func (b *Board) Cell(row, col int) (cell *Cell, ok bool) {
	if !b.InBounds(row, col) {
		return nil, false
	}
	return &b.cells[b.index(row, col)], true
}

// MineCount counts the mines currently on the board.
func (b *Board) MineCount() (n int) {
	for i := range b.cells {
		if b.cells[i].mine {
			n++
		}
	}
	return
}

// All iterates over every cell in row-major order.
func (b *Board) All() iter.Seq2[Point, *Cell] {
	return func(yield func(Point, *Cell) bool) {
		for i := range b.cells {
			if !yield(b.point(i), &b.cells[i]) {
				return
			}
		}
	}
}

// Neighbors returns the in-bounds points among the eight surrounding
// row, col.
func (b *Board) Neighbors(row, col int) []Point {
	points := make([]Point, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if b.InBounds(row+dr, col+dc) {
				points = append(points, Point{row + dr, col + dc})
			}
		}
	}
	return points
}

// PlaceMines puts totalMines mines on distinct cells chosen uniformly at
// random, never on safeRow, safeCol. Calls after the first successful one
// are ignored.
func (b *Board) PlaceMines(safeRow, safeCol, totalMines int, r *rand.Rand) error {
	if b.minesPlaced {
		return nil
	}
	if totalMines < 0 || totalMines >= len(b.cells) {
		return ErrInvalidMineCount
	}
	if r == nil {
		r = NewRand()
	}

	safe := -1
	if b.InBounds(safeRow, safeCol) {
		safe = b.index(safeRow, safeCol)
	}

	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if i != safe {
			candidates = append(candidates, i)
		}
	}

	k := len(candidates)
	for range totalMines {
		i := r.IntN(k)
		b.cells[candidates[i]].mine = true
		k--
		candidates[i] = candidates[k]
	}

	b.latch()

	Log.WithFields(logrus.Fields{
		"rows":  b.rows,
		"cols":  b.cols,
		"mines": totalMines,
		"safe":  Point{safeRow, safeCol},
	}).Debug("mines placed")

	return nil
}

// PlaceMinesAt lays out mines on exactly the given points. Duplicates are
// collapsed. Like [Board.PlaceMines] it has no effect once mines are
// placed.
func (b *Board) PlaceMinesAt(points ...Point) error {
	if b.minesPlaced {
		return nil
	}

	distinct := make(map[int]struct{}, len(points))
	for _, p := range points {
		if !b.InBounds(p.Row, p.Col) {
			return fmt.Errorf("%w: %d,%d", ErrOutOfBounds, p.Row, p.Col)
		}
		distinct[b.index(p.Row, p.Col)] = struct{}{}
	}
	if len(distinct) >= len(b.cells) {
		return ErrInvalidMineCount
	}

	for i := range distinct {
		b.cells[i].mine = true
	}

	b.latch()
	return nil
}

func (b *Board) latch() {
	for i := range b.cells {
		if b.cells[i].mine {
			continue
		}
		p := b.point(i)
		count := 0
		for _, n := range b.Neighbors(p.Row, p.Col) {
			if b.cells[b.index(n.Row, n.Col)].mine {
				count++
			}
		}
		b.cells[i].neighborMines = count
	}
	b.minesPlaced = true
}

func (b *Board) index(row, col int) int {
	return row*b.cols + col
}

func (b *Board) point(i int) Point {
	return Point{i / b.cols, i % b.cols}
}
