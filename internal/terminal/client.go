package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/mines"
)

var ErrNoPresets = errors.New("no difficulties to choose from")

// Client plays games on a line-oriented terminal.
type Client struct {
	in      io.Reader
	out     io.Writer
	log     *logrus.Logger
	presets mines.Presets
	styles  styles

	now        func() time.Time
	difficulty string
	gameOpts   []mines.Option

	game      *mines.Game
	current   mines.Difficulty
	startedAt time.Time
	endedAt   time.Time
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithDifficulty skips the difficulty prompt.
func WithDifficulty(name string) Option {
	return func(c *Client) {
		c.difficulty = name
	}
}

// WithGameOptions is passed to every game the client starts.
func WithGameOptions(opts ...mines.Option) Option {
	return func(c *Client) {
		c.gameOpts = opts
	}
}

func New(in io.Reader, out io.Writer, log *logrus.Logger, presets mines.Presets, opts ...Option) *Client {
	c := &Client{
		in:      in,
		out:     out,
		log:     log,
		presets: presets,
		styles:  newStyles(out),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLines feeds input lines to the returned channel until the input ends.
func (c *Client) readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.log.WithError(err).Error("unable to read input")
		}
	}()
	return lines
}

// Run plays until the player quits, the input ends or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	if len(c.presets) == 0 {
		return ErrNoPresets
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := c.readLines(ctx)

	next := func() (string, bool) {
		select {
		case <-ctx.Done():
			return "", false
		case line, ok := <-lines:
			return line, ok
		}
	}

	d, ok, err := c.chooseDifficulty(next)
	if err != nil || !ok {
		return err
	}
	if err := c.start(d); err != nil {
		return err
	}
	c.render()

	for {
		c.printf("> ")
		line, ok := next()
		if !ok {
			c.printf("\n")
			return nil
		}

		cmd, err := command.Parse(line)
		if errors.Is(err, command.ErrEmpty) {
			continue
		}
		if err != nil {
			c.printf("%s\n", c.styles.err.Render(err.Error()))
			continue
		}

		switch cmd.Verb {
		case command.Quit:
			return nil
		case command.Help:
			c.printf("%s\n", command.Usage)
		case command.New:
			if err := c.start(c.current); err != nil {
				return err
			}
			c.render()
		default:
			c.move(cmd)
		}
	}
}

func (c *Client) chooseDifficulty(next func() (string, bool)) (mines.Difficulty, bool, error) {
	if c.difficulty != "" {
		d, ok := c.presets.Lookup(c.difficulty)
		if !ok {
			return mines.Difficulty{}, false, fmt.Errorf(
				"unknown difficulty %q, choose one of %s",
				c.difficulty, strings.Join(c.presets.Names(), ", "),
			)
		}
		return d, true, nil
	}

	for {
		c.printf("Choose difficulty [%s] (default %s): ",
			strings.Join(c.presets.Names(), ", "), c.presets[0].Name)
		line, ok := next()
		if !ok {
			c.printf("\n")
			return mines.Difficulty{}, false, nil
		}
		name := strings.TrimSpace(line)
		if name == "" {
			return c.presets[0], true, nil
		}
		if d, ok := c.presets.Lookup(name); ok {
			return d, true, nil
		}
		c.printf("%s\n", c.styles.err.Render(fmt.Sprintf("unknown difficulty %q", name)))
	}
}

func (c *Client) start(d mines.Difficulty) error {
	game, err := mines.NewGame(d, c.gameOpts...)
	if err != nil {
		return fmt.Errorf("unable to start %s game: %w", d.Name, err)
	}
	c.game = game
	c.current = d
	c.startedAt = c.now()
	c.endedAt = time.Time{}

	c.log.WithField("difficulty", d.String()).Debug("game started")
	return nil
}

func (c *Client) move(cmd command.Command) {
	if c.game.IsGameOver() {
		if cmd.Verb == command.Get {
			c.render()
		}
		c.printf("Game over. Type n to play again or q to quit.\n")
		return
	}

	cmd.Apply(c.game)

	if c.game.IsGameOver() {
		c.endedAt = c.now()
	}
	c.render()

	switch c.game.State() {
	case mines.Won:
		c.printf("%s\n", c.styles.won.Render("You won!"))
	case mines.Lost:
		c.printf("%s\n", c.styles.lost.Render("You hit a mine!"))
	}
}

func (c *Client) elapsed() time.Duration {
	end := c.endedAt
	if end.IsZero() {
		end = c.now()
	}
	return end.Sub(c.startedAt)
}

func (c *Client) render() {
	b := c.game.Board()
	c.printf("%s\n%s",
		c.styles.renderStatus(c.current, c.elapsed(), c.game.MinesRemaining()),
		c.styles.renderBoard(c.game.Grid(), b.Rows(), b.Cols()),
	)
}
