package mines

import (
	"fmt"
	"strings"
)

type Difficulty struct {
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	MineCount int    `json:"mine_count"`
}

var (
	Easy   = Difficulty{Name: "easy", Rows: 8, Cols: 8, MineCount: 10}
	Medium = Difficulty{Name: "medium", Rows: 16, Cols: 16, MineCount: 40}
	Hard   = Difficulty{Name: "hard", Rows: 24, Cols: 24, MineCount: 99}
)

// NewDifficulty returns a validated difficulty. An empty name is replaced
// with a "ROWSxCOLS/MINES" label.
func NewDifficulty(name string, rows, cols, mineCount int) (Difficulty, error) {
	d := Difficulty{Name: name, Rows: rows, Cols: cols, MineCount: mineCount}
	if err := d.Validate(); err != nil {
		return Difficulty{}, err
	}
	if d.Name == "" {
		d.Name = d.Seed()
	}
	return d, nil
}

func (d Difficulty) Validate() error {
	return validate(d.Rows, d.Cols, d.MineCount)
}

func validate(rows, cols, mineCount int) error {
	if rows <= 0 || cols <= 0 {
		return ErrInvalidDimensions
	}
	if mineCount < 0 || mineCount >= rows*cols {
		return ErrInvalidMineCount
	}
	return nil
}

func (d Difficulty) Cells() int {
	return d.Rows * d.Cols
}

func (d Difficulty) Seed() string {
	return fmt.Sprintf("%dx%d/%d", d.Rows, d.Cols, d.MineCount)
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Seed())
}

// Presets is an ordered set of named difficulties.
type Presets []Difficulty

func DefaultPresets() Presets {
	return Presets{Easy, Medium, Hard}
}

// Lookup finds a preset by name, ignoring case.
func (p Presets) Lookup(name string) (Difficulty, bool) {
	for _, d := range p {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Difficulty{}, false
}

func (p Presets) Names() []string {
	names := make([]string, len(p))
	for i, d := range p {
		names[i] = d.Name
	}
	return names
}

// With returns a copy of p extended with more. A difficulty whose name is
// already present replaces the earlier entry in place.
func (p Presets) With(more ...Difficulty) (Presets, error) {
	res := make(Presets, len(p), len(p)+len(more))
	copy(res, p)
	for _, d := range more {
		if d.Name == "" {
			return nil, fmt.Errorf("preset %s: empty name", d.Seed())
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", d.Name, err)
		}
		replaced := false
		for i := range res {
			if strings.EqualFold(res[i].Name, d.Name) {
				res[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			res = append(res, d)
		}
	}
	return res, nil
}
