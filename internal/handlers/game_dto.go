package handlers

import (
	"errors"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrPartialDifficulty = errors.New("rows, cols and mine_count must be given together")
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

// NewGameDTO selects either a preset by name or a custom board.
type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
	Rows       *int   `schema:"rows"`
	Cols       *int   `schema:"cols"`
	MineCount  *int   `schema:"mine_count"`
}

func ParseNewGameDTO(src url.Values) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

// Resolve picks the requested difficulty. With no parameters at all the
// first preset is used.
func (dto NewGameDTO) Resolve(presets mines.Presets) (mines.Difficulty, error) {
	if dto.Difficulty != "" {
		d, ok := presets.Lookup(dto.Difficulty)
		if !ok {
			return mines.Difficulty{}, ErrUnknownDifficulty
		}
		return d, nil
	}

	switch {
	case dto.Rows == nil && dto.Cols == nil && dto.MineCount == nil:
		if len(presets) == 0 {
			return mines.Difficulty{}, ErrUnknownDifficulty
		}
		return presets[0], nil
	case dto.Rows == nil || dto.Cols == nil || dto.MineCount == nil:
		return mines.Difficulty{}, ErrPartialDifficulty
	}
	return mines.NewDifficulty("", *dto.Rows, *dto.Cols, *dto.MineCount)
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePositionDTO(src url.Values) (PositionDTO, error) {
	var dto PositionDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionId  string     `json:"game_session_id"`
	Difficulty     string     `json:"difficulty"`
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	MineCount      int        `json:"mine_count"`
	Flags          int        `json:"flags"`
	MinesRemaining int        `json:"mines_remaining"`
	State          string     `json:"state"`
	GameOver       bool       `json:"game_over"`
	Won            bool       `json:"won"`
	Grid           mines.Grid `json:"grid"`
	StartedAt      int64      `json:"started_at"`
	EndedAt        *int64     `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(s session.Snapshot) *GameSessionDTO {
	var endedAt *int64
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
	}
	dto := &GameSessionDTO{
		GameSessionId:  s.Id,
		Difficulty:     s.Difficulty.Name,
		Rows:           s.Difficulty.Rows,
		Cols:           s.Difficulty.Cols,
		MineCount:      s.Difficulty.MineCount,
		Flags:          s.Flags,
		MinesRemaining: s.MinesRemaining,
		State:          s.State.String(),
		GameOver:       s.State != mines.Playing,
		Won:            s.State == mines.Won,
		Grid:           s.Grid,
		StartedAt:      s.StartedAt.UnixMilli(),
		EndedAt:        endedAt,
	}
	return dto
}

type CreatedGameSessionDTO struct {
	*GameSessionDTO
	Token string `json:"token"`
}
