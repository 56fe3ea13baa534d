package mines

import "errors"

var (
	ErrInvalidDimensions = errors.New("rows and cols must be positive")
	ErrInvalidMineCount  = errors.New("mine count must be non-negative and less than the number of cells")
	ErrOutOfBounds       = errors.New("point out of bounds")
)
