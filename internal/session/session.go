package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
)

// Session owns one game. All access to the game goes through Do or
// Snapshot, which hold the session lock.
type Session struct {
	Id         string
	Difficulty mines.Difficulty
	StartedAt  time.Time

	mu      sync.Mutex
	game    *mines.Game
	endedAt time.Time
	closed  bool
	now     func() time.Time

	lastSeen atomic.Int64
}

// Snapshot is a consistent copy of a session's public state.
type Snapshot struct {
	Id             string
	Difficulty     mines.Difficulty
	State          mines.State
	Flags          int
	MinesRemaining int
	Grid           mines.Grid
	StartedAt      time.Time
	EndedAt        time.Time
}

func (s *Session) touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

func (s *Session) idleSince(t time.Time) time.Duration {
	return t.Sub(time.Unix(0, s.lastSeen.Load()))
}

// Do runs f with exclusive access to the game and returns the state it left.
// Once the session has left its store Do reports [ErrNotFound] and f is not
// called.
func (s *Session) Do(f func(g *mines.Game)) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrNotFound
	}

	f(s.game)

	now := s.now()
	s.touch(now)
	if s.game.IsGameOver() && s.endedAt.IsZero() {
		s.endedAt = now
	}
	return s.snapshot(), nil
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(s.now())
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Id:             s.Id,
		Difficulty:     s.Difficulty,
		State:          s.game.State(),
		Flags:          s.game.FlagsPlaced(),
		MinesRemaining: s.game.MinesRemaining(),
		Grid:           s.game.Grid(),
		StartedAt:      s.StartedAt,
		EndedAt:        s.endedAt,
	}
}
