package mines

// Cell is the state of one board position. Cells are only mutated by the
// [Board] and [Game] that own them.
type Cell struct {
	mine          bool
	revealed      bool
	flagged       bool
	neighborMines int
}

func (c Cell) IsMine() bool {
	return c.mine
}

func (c Cell) IsRevealed() bool {
	return c.revealed
}

func (c Cell) IsFlagged() bool {
	return c.flagged
}

// NeighborMines is the number of mines among the up to eight adjacent
// cells. It is meaningless for mine cells.
func (c Cell) NeighborMines() int {
	return c.neighborMines
}

// Status projects the cell onto what the player is allowed to see.
func (c Cell) Status() CellStatus {
	switch {
	case c.revealed && c.mine:
		return Mine
	case c.revealed:
		return CellStatus(c.neighborMines)
	case c.flagged:
		return Flagged
	default:
		return Unknown
	}
}
