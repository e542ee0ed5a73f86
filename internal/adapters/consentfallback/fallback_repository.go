// Package consentfallback wraps the relational consent repository with the
// in-memory fallback the concurrency model requires: once the
// primary store errors, every subsequent call is served by the in-memory
// implementation and one degraded-mode warning is logged per process.
package consentfallback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
	"github.com/novascore/credit-engine/internal/ports"
)

// Repository degrades from a primary (relational) ConsentRepository to a
// fallback (in-memory) one on the first write or read failure.
type Repository struct {
	primary  ports.ConsentRepository
	fallback ports.ConsentRepository

	mu        sync.Mutex
	degraded  bool
	warnedOnce bool
}

func New(primary, fallback ports.ConsentRepository) *Repository {
	return &Repository{primary: primary, fallback: fallback}
}

func (r *Repository) active() ports.ConsentRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.degraded {
		return r.fallback
	}
	return r.primary
}

func (r *Repository) degrade(ctx context.Context, operation string, cause error) {
	r.mu.Lock()
	alreadyWarned := r.warnedOnce
	r.degraded = true
	r.warnedOnce = true
	r.mu.Unlock()
	if alreadyWarned {
		return
	}
	slog.Default().WarnContext(ctx, "consent repository degraded to in-memory fallback",
		"service", "credit-engine",
		"module", "application",
		"layer", "adapter",
		"operation", operation,
		"outcome", "degraded",
		"error", cause.Error(),
	)
}

func (r *Repository) Create(ctx context.Context, artefact domain.ConsentArtefact) (domain.ConsentArtefact, error) {
	active := r.active()
	res, err := active.Create(ctx, artefact)
	if err != nil && active == r.primary && !isDomainError(err) {
		r.degrade(ctx, "consent_create", err)
		return r.fallback.Create(ctx, artefact)
	}
	return res, err
}

func (r *Repository) Get(ctx context.Context, consentID string) (domain.ConsentArtefact, error) {
	active := r.active()
	res, err := active.Get(ctx, consentID)
	if err != nil && active == r.primary && !isDomainError(err) {
		r.degrade(ctx, "consent_get", err)
		return r.fallback.Get(ctx, consentID)
	}
	return res, err
}

func (r *Repository) ListByUser(ctx context.Context, userReferenceID string) ([]domain.ConsentArtefact, error) {
	active := r.active()
	res, err := active.ListByUser(ctx, userReferenceID)
	if err != nil && active == r.primary && !isDomainError(err) {
		r.degrade(ctx, "consent_list_by_user", err)
		return r.fallback.ListByUser(ctx, userReferenceID)
	}
	return res, err
}

func (r *Repository) Revoke(ctx context.Context, consentID string, revokedAt time.Time) (domain.ConsentArtefact, error) {
	active := r.active()
	res, err := active.Revoke(ctx, consentID, revokedAt)
	if err != nil && active == r.primary && !isDomainError(err) {
		r.degrade(ctx, "consent_revoke", err)
		return r.fallback.Revoke(ctx, consentID, revokedAt)
	}
	return res, err
}

// isDomainError distinguishes a business rejection (not found, conflict) from
// an infrastructure failure; only the latter should trigger degradation.
func isDomainError(err error) bool {
	switch err {
	case domain.ErrNotFound, domain.ErrConflict, domain.ErrInvalidInput:
		return true
	default:
		return false
	}
}
