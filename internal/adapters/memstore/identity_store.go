// Package memstore implements the in-process, mutex-guarded flat maps the
// default deployment runs on: the identity/rate-limit store, the consent
// fallback store, and the FI session store. Every mutator is a
// single critical section; expired-lock cleanup is opportunistic on read.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

type identityRecord struct {
	failedCount int
	lockedUntil *time.Time
	session     *domain.OTPSession
}

// IdentityStore implements ports.IdentityStore as a single mutex-guarded map,
// keyed by the SHA-256 hex of the raw identifier.
type IdentityStore struct {
	mu      sync.Mutex
	records map[string]*identityRecord
}

// NewIdentityStore constructs an empty identity/rate-limit store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{records: make(map[string]*identityRecord)}
}

// clearExpiredLocked drops the lock if it has already elapsed. Caller must hold mu.
func (s *IdentityStore) clearExpiredLocked(rec *identityRecord, now time.Time) {
	if rec.lockedUntil != nil && !rec.lockedUntil.After(now) {
		rec.lockedUntil = nil
	}
}

func (s *IdentityStore) IsLocked(_ context.Context, hashedID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hashedID]
	if !ok {
		return false, nil
	}
	s.clearExpiredLocked(rec, time.Now())
	return rec.lockedUntil != nil, nil
}

func (s *IdentityStore) RemainingLockout(_ context.Context, hashedID string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hashedID]
	if !ok {
		return 0, nil
	}
	now := time.Now()
	s.clearExpiredLocked(rec, now)
	if rec.lockedUntil == nil {
		return 0, nil
	}
	remaining := rec.lockedUntil.Sub(now)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (s *IdentityStore) IncrementFailed(_ context.Context, hashedID string, now time.Time, maxAttempts int, lockout time.Duration) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hashedID]
	if !ok {
		rec = &identityRecord{}
		s.records[hashedID] = rec
	}
	rec.failedCount++
	attemptsLeft := maxAttempts - rec.failedCount
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}
	locked := rec.failedCount >= maxAttempts
	if locked {
		until := now.Add(lockout)
		rec.lockedUntil = &until
	}
	return locked, attemptsLeft, nil
}

func (s *IdentityStore) Reset(_ context.Context, hashedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, hashedID)
	return nil
}

func (s *IdentityStore) PutSession(_ context.Context, hashedID string, session domain.OTPSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hashedID]
	if !ok {
		rec = &identityRecord{}
		s.records[hashedID] = rec
	}
	sessionCopy := session
	rec.session = &sessionCopy
	return nil
}

func (s *IdentityStore) GetSession(_ context.Context, hashedID string) (*domain.OTPSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hashedID]
	if !ok || rec.session == nil {
		return nil, nil
	}
	sessionCopy := *rec.session
	return &sessionCopy, nil
}

func (s *IdentityStore) ClearSession(_ context.Context, hashedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[hashedID]
	if !ok {
		return nil
	}
	rec.session = nil
	return nil
}
