// Package store holds the single current-roll slot and the player screen
// mode. One instance per process, shared by every handler.
package store

import (
	"sync"
	"time"

	"github.com/dungeonmaster/dicetower-backend/internal/roll"
)

type Store struct {
	mu sync.RWMutex

	roll      *roll.Record
	rollStamp time.Time

	screen     roll.ScreenMode
	browserURL string

	now func() time.Time // swapped out in tests
}

func New() *Store {
	return &Store{
		screen: roll.ScreenDice,
		now:    time.Now,
	}
}

// SetRoll overwrites the current roll unconditionally and restamps it.
// No history is kept.
func (s *Store) SetRoll(rec roll.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll = &rec
	s.rollStamp = s.now()
}

// Roll returns the current roll with expiry applied at read time. The stored
// slot is never mutated by a read; an expired roll is simply reported absent.
// The returned stamp is the time of the last set or clear.
func (s *Store) Roll() (roll.Record, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.roll == nil || roll.Expired(s.now(), s.rollStamp) {
		return roll.Record{}, s.rollStamp, false
	}
	return *s.roll, s.rollStamp, true
}

func (s *Store) ClearRoll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll = nil
	s.rollStamp = s.now()
}

// SetScreen validates and stores the player screen mode. An unrecognized
// mode leaves the stored state untouched. The URL only matters for browser
// mode but is stored as given.
func (s *Store) SetScreen(mode, browserURL string) (roll.ScreenMode, error) {
	parsed, err := roll.ParseScreenMode(mode)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = parsed
	s.browserURL = browserURL
	return parsed, nil
}

func (s *Store) Screen() (roll.ScreenMode, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen, s.browserURL
}
