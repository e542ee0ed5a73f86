package memstore

import (
	"context"
	"sync"

	"github.com/novascore/credit-engine/internal/domain"
)

// FISessionStore implements ports.FISessionStore as a mutex-guarded map keyed
// by txn_id, with a secondary index by session_id for FI/fetch lookups.
type FISessionStore struct {
	mu           sync.Mutex
	byTxnID      map[string]domain.FISession
	bySessionID  map[string]string // session_id -> txn_id
}

// NewFISessionStore constructs an empty FI session store.
func NewFISessionStore() *FISessionStore {
	return &FISessionStore{
		byTxnID:     make(map[string]domain.FISession),
		bySessionID: make(map[string]string),
	}
}

func (s *FISessionStore) Put(_ context.Context, session domain.FISession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTxnID[session.TxnID] = session
	if session.SessionID != "" {
		s.bySessionID[session.SessionID] = session.TxnID
	}
	return nil
}

func (s *FISessionStore) Get(_ context.Context, txnID string) (*domain.FISession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byTxnID[txnID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *FISessionStore) GetBySessionID(_ context.Context, sessionID string) (*domain.FISession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txnID, ok := s.bySessionID[sessionID]
	if !ok {
		return nil, nil
	}
	rec := s.byTxnID[txnID]
	return &rec, nil
}
