package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPresets(t *testing.T) {
	presets := DefaultPresets()

	assert.Equal(t, []string{"easy", "medium", "hard"}, presets.Names())
	for _, d := range presets {
		assert.NoError(t, d.Validate(), d.Name)
	}

	d, ok := presets.Lookup("HARD")
	require.True(t, ok)
	assert.Equal(t, Hard, d)
	assert.Equal(t, 576, d.Cells())

	_, ok = presets.Lookup("impossible")
	assert.False(t, ok)
}

func TestNewDifficulty(t *testing.T) {
	d, err := NewDifficulty("", 9, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, "9x9/10", d.Name)
	assert.Equal(t, "9x9/10 (9x9/10)", d.String())

	_, err = NewDifficulty("tiny", 0, 9, 10)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = NewDifficulty("packed", 2, 2, 4)
	assert.ErrorIs(t, err, ErrInvalidMineCount)
}

func TestPresetsWith(t *testing.T) {
	expert := Difficulty{Name: "expert", Rows: 16, Cols: 30, MineCount: 99}
	easier := Difficulty{Name: "Easy", Rows: 9, Cols: 9, MineCount: 10}

	base := DefaultPresets()
	presets, err := base.With(expert, easier)
	require.NoError(t, err)

	assert.Equal(t, []string{"Easy", "medium", "hard", "expert"}, presets.Names())
	d, ok := presets.Lookup("easy")
	require.True(t, ok)
	assert.Equal(t, 9, d.Rows)

	assert.Equal(t, Easy, base[0], "receiver must not be modified")

	_, err = base.With(Difficulty{Name: "broken", Rows: 2, Cols: 2, MineCount: 4})
	assert.ErrorIs(t, err, ErrInvalidMineCount)

	_, err = base.With(Difficulty{Rows: 2, Cols: 2, MineCount: 1})
	assert.Error(t, err)
}
