package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

type State int8

const (
	Playing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

type Option func(*Game)

// WithRand sets the random source used for mine placement.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rnd = r
	}
}

// WithLayout fixes the mine layout up front instead of placing mines on the
// first reveal. The difficulty's mine count is replaced by the layout's.
func WithLayout(points ...Point) Option {
	return func(g *Game) {
		g.layout = append([]Point{}, points...)
	}
}

// Game drives one game session: it places mines on the first reveal,
// floods open empty regions and decides wins and losses. A Game is not
// safe for concurrent use.
type Game struct {
	board         *Board
	totalMines    int
	state         State
	firstMoveMade bool
	rnd           *rand.Rand
	layout        []Point
	exploded      *Point
}

func NewGame(d Difficulty, opts ...Option) (*Game, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(d.Rows, d.Cols)
	if err != nil {
		return nil, err
	}

	g := &Game{
		board:      board,
		totalMines: d.MineCount,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		g.rnd = NewRand()
	}
	if g.layout != nil {
		if err := board.PlaceMinesAt(g.layout...); err != nil {
			return nil, err
		}
		g.totalMines = board.MineCount()
	}

	return g, nil
}

// Reveal opens the cell at row, col. The first reveal of a game places the
// mines so that this cell is safe. Opening a mine loses the game and shows
// every mine; opening a cell with no adjacent mines opens its whole empty
// region. Calls on a finished game, out of bounds, or on revealed or
// flagged cells do nothing.
func (g *Game) Reveal(row, col int) {
	if g.state != Playing || !g.board.InBounds(row, col) {
		return
	}

	if !g.firstMoveMade {
		err := g.board.PlaceMines(row, col, g.totalMines, g.rnd)
		if err != nil {
			Log.WithError(err).Error("unable to place mines")
		}
		g.firstMoveMade = true
	}

	cell, _ := g.board.Cell(row, col)
	if cell.revealed || cell.flagged {
		return
	}

	cell.revealed = true

	if cell.mine {
		g.state = Lost
		g.exploded = &Point{row, col}
		g.revealMines()
		Log.WithFields(logrus.Fields{"row": row, "col": col}).Debug("game lost")
		return
	}

	if cell.neighborMines == 0 {
		g.flood(row, col)
	}

	if g.allSafeRevealed() {
		g.state = Won
		Log.Debug("game won")
	}
}

// flood opens the empty region around row, col. Cells are marked revealed
// before they are pushed, so each is visited at most once.
func (g *Game) flood(row, col int) {
	stack := []Point{{row, col}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range g.board.Neighbors(p.Row, p.Col) {
			neighbor, _ := g.board.Cell(n.Row, n.Col)
			if neighbor.revealed || neighbor.mine {
				continue
			}
			neighbor.revealed = true
			if neighbor.neighborMines == 0 {
				stack = append(stack, n)
			}
		}
	}
}

func (g *Game) revealMines() {
	for i := range g.board.cells {
		if g.board.cells[i].mine {
			g.board.cells[i].revealed = true
		}
	}
}

func (g *Game) allSafeRevealed() bool {
	for i := range g.board.cells {
		if !g.board.cells[i].mine && !g.board.cells[i].revealed {
			return false
		}
	}
	return true
}

// ToggleFlag marks or unmarks a hidden cell as a suspected mine.
func (g *Game) ToggleFlag(row, col int) {
	if g.state != Playing {
		return
	}
	cell, ok := g.board.Cell(row, col)
	if !ok || cell.revealed {
		return
	}
	cell.flagged = !cell.flagged
}

// Chord opens every hidden, unflagged neighbor of a revealed number once
// the number of flags around it matches the number.
func (g *Game) Chord(row, col int) {
	if g.state != Playing {
		return
	}
	cell, ok := g.board.Cell(row, col)
	if !ok || !cell.revealed || cell.mine {
		return
	}

	neighbors := g.board.Neighbors(row, col)
	flags := 0
	for _, n := range neighbors {
		if c, _ := g.board.Cell(n.Row, n.Col); c.flagged && !c.revealed {
			flags++
		}
	}
	if flags != cell.neighborMines {
		return
	}

	for _, n := range neighbors {
		if g.state != Playing {
			return
		}
		g.Reveal(n.Row, n.Col)
	}
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) IsGameOver() bool {
	return g.state != Playing
}

func (g *Game) IsGameWon() bool {
	return g.state == Won
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) TotalMines() int {
	return g.totalMines
}

func (g *Game) FirstMoveMade() bool {
	return g.firstMoveMade
}

// FlagsPlaced counts flags on cells that are still hidden.
func (g *Game) FlagsPlaced() (n int) {
	for i := range g.board.cells {
		if g.board.cells[i].flagged && !g.board.cells[i].revealed {
			n++
		}
	}
	return
}

// MinesRemaining is the mine count minus the flags placed. It goes
// negative when the player over-flags.
func (g *Game) MinesRemaining() int {
	return g.totalMines - g.FlagsPlaced()
}

// Exploded returns the mine that ended a lost game.
func (g *Game) Exploded() (Point, bool) {
	if g.exploded == nil {
		return Point{}, false
	}
	return *g.exploded, true
}

// Grid is the player-visible projection of the board. Hidden mines are
// never exposed.
func (g *Game) Grid() Grid {
	grid := make(Grid, len(g.board.cells))
	for i := range g.board.cells {
		grid[i] = g.board.cells[i].Status()
	}
	if g.exploded != nil {
		grid[g.board.index(g.exploded.Row, g.exploded.Col)] = ExplodedMine
	}
	return grid
}
