package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

type Verb string

const (
	Get   Verb = "g"
	Open  Verb = "o"
	Flag  Verb = "f"
	Chord Verb = "c"
	New   Verb = "n"
	Quit  Verb = "q"
	Help  Verb = "h"
)

// Maps known commands to number of arguments
var commandNargs = map[Verb]int{
	Get:   0,
	Open:  2,
	Flag:  2,
	Chord: 2,
	New:   0,
	Quit:  0,
	Help:  0,
}

var aliases = map[string]Verb{
	"get":    Get,
	"open":   Open,
	"reveal": Open,
	"flag":   Flag,
	"chord":  Chord,
	"new":    New,
	"quit":   Quit,
	"exit":   Quit,
	"help":   Help,
	"?":      Help,
}

var (
	ErrEmpty    = errors.New("empty command")
	ErrUnknown  = errors.New("unknown command")
	ErrNargs    = errors.New("invalid number of arguments")
	ErrArgument = errors.New("arguments must be integers")
)

const Usage = `commands:
  o ROW COL   reveal a cell
  f ROW COL   flag or unflag a cell
  c ROW COL   open the neighbors of a satisfied number
  g           show the board
  n           start a new game
  q           quit
  h           show this help`

type Command struct {
	Verb Verb
	Row  int
	Col  int
}

func (c Command) String() string {
	if commandNargs[c.Verb] == 2 {
		return fmt.Sprintf("%s %d %d", c.Verb, c.Row, c.Col)
	}
	return string(c.Verb)
}

// Parse reads one command line. Coordinates are only checked for being
// integers; range checks are left to the game.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}

	name := strings.ToLower(parts[0])
	verb, ok := aliases[name]
	if !ok {
		verb = Verb(name)
	}
	nargs, ok := commandNargs[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknown, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w: %q takes %d", ErrNargs, parts[0], nargs)
	}

	cmd := Command{Verb: verb}
	if nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return Command{}, err
		}
		cmd.Row, cmd.Col = row, col
	}
	return cmd, nil
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: row %q", ErrArgument, twoStrings[0])
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: col %q", ErrArgument, twoStrings[1])
	}
	return
}

// Move reports whether the command acts on a game.
func (c Command) Move() bool {
	switch c.Verb {
	case Get, Open, Flag, Chord:
		return true
	}
	return false
}

// Apply runs a move against g. Commands that are not moves are ignored.
func (c Command) Apply(g *mines.Game) {
	switch c.Verb {
	case Open:
		g.Reveal(c.Row, c.Col)
	case Flag:
		g.ToggleFlag(c.Row, c.Col)
	case Chord:
		g.Chord(c.Row, c.Col)
	}
}

// Lines yields the pieces of s between occurrences of sep.
func Lines(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
