package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

// ConsentStore is the in-memory fallback implementation of ports.ConsentRepository,
// used when the relational store is unavailable at startup or on write.
type ConsentStore struct {
	mu       sync.Mutex
	byID     map[string]domain.ConsentArtefact
	byUser   map[string][]string
}

// NewConsentStore constructs an empty fallback consent store.
func NewConsentStore() *ConsentStore {
	return &ConsentStore{byID: make(map[string]domain.ConsentArtefact), byUser: make(map[string][]string)}
}

func (s *ConsentStore) Create(_ context.Context, artefact domain.ConsentArtefact) (domain.ConsentArtefact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[artefact.ConsentID] = artefact
	s.byUser[artefact.UserReferenceID] = append(s.byUser[artefact.UserReferenceID], artefact.ConsentID)
	return artefact, nil
}

func (s *ConsentStore) Get(_ context.Context, consentID string) (domain.ConsentArtefact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[consentID]
	if !ok {
		return domain.ConsentArtefact{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *ConsentStore) ListByUser(_ context.Context, userReferenceID string) ([]domain.ConsentArtefact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.byUser[userReferenceID]
	out := make([]domain.ConsentArtefact, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *ConsentStore) Revoke(_ context.Context, consentID string, revokedAt time.Time) (domain.ConsentArtefact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[consentID]
	if !ok {
		return domain.ConsentArtefact{}, domain.ErrNotFound
	}
	if a.Status != domain.ConsentActive {
		return domain.ConsentArtefact{}, domain.ErrConflict
	}
	a.Status = domain.ConsentRevoked
	a.RevokedAt = &revokedAt
	a.UpdatedAt = revokedAt
	s.byID[consentID] = a
	return a, nil
}
