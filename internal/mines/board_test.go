package mines

import (
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

func countMines(b *Board) (n int) {
	for _, c := range b.All() {
		if c.IsMine() {
			n++
		}
	}
	return
}

func mineSet(b *Board) map[Point]bool {
	set := make(map[Point]bool)
	for p, c := range b.All() {
		if c.IsMine() {
			set[p] = true
		}
	}
	return set
}

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		err        error
	}{
		{"1x1", 1, 1, nil},
		{"8x8", 8, 8, nil},
		{"zero rows", 0, 5, ErrInvalidDimensions},
		{"zero cols", 5, 0, ErrInvalidDimensions},
		{"negative", -1, -1, ErrInvalidDimensions},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := NewBoard(test.rows, test.cols)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.rows, b.Rows())
			assert.Equal(t, test.cols, b.Cols())
			assert.False(t, b.MinesPlaced())
			for _, c := range b.All() {
				assert.Equal(t, Cell{}, *c)
			}
		})
	}
}

func TestCellOutOfBounds(t *testing.T) {
	b, err := NewBoard(3, 4)
	require.NoError(t, err)

	for _, p := range []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 4}, {10, 10}} {
		c, ok := b.Cell(p.Row, p.Col)
		assert.False(t, ok, "%v", p)
		assert.Nil(t, c)
		assert.False(t, b.InBounds(p.Row, p.Col))
	}

	c, ok := b.Cell(2, 3)
	assert.True(t, ok)
	assert.NotNil(t, c)
}

func TestNeighbors(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)

	assert.Len(t, b.Neighbors(0, 0), 3)
	assert.Len(t, b.Neighbors(0, 1), 5)
	assert.Len(t, b.Neighbors(1, 1), 8)
	assert.ElementsMatch(t,
		[]Point{{0, 1}, {1, 0}, {1, 1}},
		b.Neighbors(0, 0),
	)

	single, err := NewBoard(1, 1)
	require.NoError(t, err)
	assert.Empty(t, single.Neighbors(0, 0))
}

func TestPlaceMines(t *testing.T) {
	tests := []struct {
		name             string
		rows, cols, mine int
	}{
		{"8x8(10)", 8, 8, 10},
		{"16x16(40)", 16, 16, 40},
		{"24x24(99)", 24, 24, 99},
		{"3x3(8)", 3, 3, 8},
		{"2x1(1)", 2, 1, 1},
		{"5x5(0)", 5, 5, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, 2))
			for sr := range test.rows {
				for sc := range test.cols {
					b, err := NewBoard(test.rows, test.cols)
					require.NoError(t, err)

					require.NoError(t, b.PlaceMines(sr, sc, test.mine, r))

					assert.True(t, b.MinesPlaced())
					assert.Equal(t, test.mine, countMines(b))
					safe, _ := b.Cell(sr, sc)
					assert.False(t, safe.IsMine(), "mine on safe cell %d:%d", sr, sc)
				}
			}
		})
	}
}

func TestPlaceMinesNeighborCounts(t *testing.T) {
	b, err := NewBoard(9, 7)
	require.NoError(t, err)
	require.NoError(t, b.PlaceMines(4, 3, 20, rand.New(rand.NewPCG(3, 4))))

	for p, c := range b.All() {
		if c.IsMine() {
			continue
		}
		want := 0
		for _, n := range b.Neighbors(p.Row, p.Col) {
			if nc, _ := b.Cell(n.Row, n.Col); nc.IsMine() {
				want++
			}
		}
		assert.Equal(t, want, c.NeighborMines(), "%v", p)
	}
}

func TestCenterMineCounts(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)
	require.NoError(t, b.PlaceMinesAt(Point{1, 1}))

	for p, c := range b.All() {
		if p == (Point{1, 1}) {
			assert.True(t, c.IsMine())
			continue
		}
		assert.False(t, c.IsMine())
		assert.Equal(t, 1, c.NeighborMines(), "%v", p)
	}
}

func TestPlaceMinesOnce(t *testing.T) {
	b, err := NewBoard(8, 8)
	require.NoError(t, err)
	r := rand.New(rand.NewPCG(5, 6))

	require.NoError(t, b.PlaceMines(0, 0, 10, r))
	before := mineSet(b)
	counts := make([]int, 0, 64)
	for _, c := range b.All() {
		counts = append(counts, c.NeighborMines())
	}

	require.NoError(t, b.PlaceMines(7, 7, 30, r))
	require.NoError(t, b.PlaceMinesAt(Point{0, 0}))

	assert.Equal(t, before, mineSet(b))
	i := 0
	for _, c := range b.All() {
		assert.Equal(t, counts[i], c.NeighborMines())
		i++
	}
}

func TestPlaceMinesInvalidCount(t *testing.T) {
	b, err := NewBoard(3, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, b.PlaceMines(0, 0, 9, nil), ErrInvalidMineCount)
	assert.ErrorIs(t, b.PlaceMines(0, 0, 100, nil), ErrInvalidMineCount)
	assert.ErrorIs(t, b.PlaceMines(0, 0, -1, nil), ErrInvalidMineCount)
	assert.False(t, b.MinesPlaced())
	assert.Zero(t, countMines(b))
}

func TestPlaceMinesDense(t *testing.T) {
	// every cell except the safe one becomes a mine
	for seed := range uint64(20) {
		b, err := NewBoard(24, 24)
		require.NoError(t, err)
		require.NoError(t, b.PlaceMines(11, 13, 24*24-1, rand.New(rand.NewPCG(seed, seed))))

		assert.Equal(t, 24*24-1, countMines(b))
		safe, _ := b.Cell(11, 13)
		assert.False(t, safe.IsMine())
		assert.Equal(t, 8, safe.NeighborMines())
	}
}

func TestPlaceMinesSafeOutOfBounds(t *testing.T) {
	b, err := NewBoard(2, 2)
	require.NoError(t, err)
	require.NoError(t, b.PlaceMines(-1, -1, 3, nil))
	assert.Equal(t, 3, countMines(b))
}

func TestPlaceMinesAt(t *testing.T) {
	t.Run("out of bounds", func(t *testing.T) {
		b, err := NewBoard(2, 2)
		require.NoError(t, err)
		assert.ErrorIs(t, b.PlaceMinesAt(Point{0, 0}, Point{2, 0}), ErrOutOfBounds)
		assert.False(t, b.MinesPlaced())
		assert.Zero(t, countMines(b))
	})

	t.Run("too many", func(t *testing.T) {
		b, err := NewBoard(1, 2)
		require.NoError(t, err)
		assert.ErrorIs(t, b.PlaceMinesAt(Point{0, 0}, Point{0, 1}), ErrInvalidMineCount)
	})

	t.Run("duplicates", func(t *testing.T) {
		b, err := NewBoard(1, 2)
		require.NoError(t, err)
		require.NoError(t, b.PlaceMinesAt(Point{0, 0}, Point{0, 0}))
		assert.Equal(t, 1, b.MineCount())
		c, _ := b.Cell(0, 1)
		assert.Equal(t, 1, c.NeighborMines())
	})

	t.Run("empty", func(t *testing.T) {
		b, err := NewBoard(2, 2)
		require.NoError(t, err)
		require.NoError(t, b.PlaceMinesAt())
		assert.True(t, b.MinesPlaced())
		assert.Zero(t, b.MineCount())
	})
}
