// Package memstore keeps one-time codes in process memory.
//
// Every check-then-act sequence runs under a single mutex, so concurrent
// verifications of one code cannot both succeed. A password reset holds its
// code reserved while it talks to the identity provider; a reserved code
// cannot be spent by anyone else.
package memstore

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/estatenotify/internal/identity/entity"
	"github.com/shandysiswandi/estatenotify/internal/pkg/clock"
)

// Store holds at most one code per identifier.
type Store struct {
	mu      sync.Mutex
	records map[string]slot
}

type slot struct {
	rec      entity.OTP
	reserved bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[string]slot)}
}

// Put stores rec, replacing any code already issued for the identifier. A
// reservation on the replaced code is dropped with it.
func (s *Store) Put(rec entity.OTP) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Identifier] = slot{rec: rec}
}

// Get returns the record for identifier, expired or not.
func (s *Store) Get(identifier string) (entity.OTP, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.records[identifier]
	return sl.rec, ok
}

// Reserved reports whether the code for identifier is held by a reset.
func (s *Store) Reserved(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records[identifier].reserved
}

// Delete removes the record for identifier.
func (s *Store) Delete(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, identifier)
}

// Verify checks code against the stored record at now.
//
// An expired record is removed. A mismatch leaves the record untouched. A
// match removes the record only when consume is set; a reserved code cannot
// be consumed and reports ErrOTPNotFound, while a check without consume
// still succeeds.
func (s *Store) Verify(identifier, code string, now time.Time, consume bool) (entity.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.match(identifier, code, now)
	if err != nil {
		return entity.OTP{}, err
	}

	if consume {
		if sl.reserved {
			return entity.OTP{}, entity.ErrOTPNotFound
		}
		delete(s.records, identifier)
	}

	return sl.rec, nil
}

// Reserve checks code like Verify and marks the matched record as held. The
// holder must finish with DeleteIfMatch or Release. A code that is already
// reserved reports ErrOTPNotFound, so only one reset can spend it.
func (s *Store) Reserve(identifier, code string, now time.Time) (entity.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, err := s.match(identifier, code, now)
	if err != nil {
		return entity.OTP{}, err
	}
	if sl.reserved {
		return entity.OTP{}, entity.ErrOTPNotFound
	}

	sl.reserved = true
	s.records[identifier] = sl
	return sl.rec, nil
}

// Release drops the reservation on rec, leaving the code usable. It is a
// no-op when the code was re-issued or removed in the meantime.
func (s *Store) Release(rec entity.OTP) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.records[rec.Identifier]
	if !ok || !sl.rec.SameIssue(rec) {
		return
	}

	sl.reserved = false
	s.records[rec.Identifier] = sl
}

// match must be called with mu held.
func (s *Store) match(identifier, code string, now time.Time) (slot, error) {
	sl, ok := s.records[identifier]
	if !ok {
		return slot{}, entity.ErrOTPNotFound
	}

	if !sl.rec.ValidAt(now) {
		delete(s.records, identifier)
		return slot{}, entity.ErrOTPExpired
	}

	if subtle.ConstantTimeCompare([]byte(sl.rec.Code), []byte(code)) != 1 {
		return slot{}, entity.ErrOTPMismatch
	}

	return sl, nil
}

// DeleteIfMatch removes the record only if it is still the issue rec refers
// to. A code re-issued in the meantime is kept.
func (s *Store) DeleteIfMatch(rec entity.OTP) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[rec.Identifier]
	if !ok || !cur.rec.SameIssue(rec) {
		return false
	}

	delete(s.records, rec.Identifier)
	return true
}

// Sweep drops every record expired at now and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sl := range s.records {
		if !sl.rec.ValidAt(now) {
			delete(s.records, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored records, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, clk clock.Clocker) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(clk.Now()); n > 0 {
				slog.DebugContext(ctx, "swept expired otp records", "count", n)
			}
		}
	}
}
