package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	ErrNotFound = errors.New("game session not found")
	ErrFull     = errors.New("too many active game sessions")
)

type Store struct {
	log         *logrus.Logger
	idleTimeout time.Duration
	max         int
	now         func() time.Time

	mu       sync.Mutex
	lastId   int64
	sessions map[string]*Session
}

type Option func(*Store)

// WithIdleTimeout sets how long a session may go untouched before it is
// dropped. Zero keeps sessions forever.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.idleTimeout = d
	}
}

// WithMax limits the number of live sessions. Zero means no limit.
func WithMax(n int) Option {
	return func(s *Store) {
		s.max = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(log *logrus.Logger, opts ...Option) *Store {
	s := &Store{
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.idleTimeout > 0 && sess.idleSince(now) > s.idleTimeout
}

// Creates a new game for d and registers it under a fresh id.
func (s *Store) Create(d mines.Difficulty, opts ...mines.Option) (*Session, error) {
	game, err := mines.NewGame(d, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		s.sweepLocked()
		if len(s.sessions) >= s.max {
			return nil, fmt.Errorf("%w (%d)", ErrFull, s.max)
		}
	}

	s.lastId++
	now := s.now()
	sess := &Session{
		Id:         strconv.FormatInt(s.lastId, 10),
		Difficulty: d,
		StartedAt:  now,
		game:       game,
		now:        s.now,
	}
	sess.touch(now)
	s.sessions[sess.Id] = sess

	s.log.WithFields(logrus.Fields{
		"id":         sess.Id,
		"difficulty": d.String(),
	}).Debug("game session created")

	return sess, nil
}

// Retrieves a live session. Expired sessions are removed and reported as
// [ErrNotFound].
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(sess, s.now()) {
		s.removeLocked(sess)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.removeLocked(sess)
	return nil
}

// removeLocked unregisters sess and closes it, so holders of the pointer
// can no longer play it.
func (s *Store) removeLocked(sess *Session) {
	delete(s.sessions, sess.Id)
	sess.close()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every expired session and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	now := s.now()
	n := 0
	for _, sess := range s.sessions {
		if s.expired(sess, now) {
			s.removeLocked(sess)
			n++
		}
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{
			"swept": n,
			"live":  len(s.sessions),
		}).Debug("expired game sessions removed")
	}
	return n
}

// Run sweeps the store every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || s.idleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
