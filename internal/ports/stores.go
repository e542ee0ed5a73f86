package ports

import (
	"context"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

// IdentityStore is the per-hashed-identity rate limiter contract.
// Every mutator is a single critical section; no observer sees a half-updated record.
type IdentityStore interface {
	IsLocked(ctx context.Context, hashedID string) (bool, error)
	RemainingLockout(ctx context.Context, hashedID string) (time.Duration, error)
	IncrementFailed(ctx context.Context, hashedID string, now time.Time, maxAttempts int, lockout time.Duration) (locked bool, attemptsLeft int, err error)
	Reset(ctx context.Context, hashedID string) error

	PutSession(ctx context.Context, hashedID string, session domain.OTPSession) error
	GetSession(ctx context.Context, hashedID string) (*domain.OTPSession, error)
	ClearSession(ctx context.Context, hashedID string) error
}

// ConsentRepository persists consent artefacts with their lifecycle rules.
// The primary implementation is relational (Postgres/GORM); on startup or write
// failure the service falls back to an in-memory implementation of the same
// interface, emitting one degraded-mode warning per process.
type ConsentRepository interface {
	Create(ctx context.Context, artefact domain.ConsentArtefact) (domain.ConsentArtefact, error)
	Get(ctx context.Context, consentID string) (domain.ConsentArtefact, error)
	ListByUser(ctx context.Context, userReferenceID string) ([]domain.ConsentArtefact, error)
	Revoke(ctx context.Context, consentID string, revokedAt time.Time) (domain.ConsentArtefact, error)
}

// FISessionStore persists the AA request/fetch session record keyed by txn_id.
type FISessionStore interface {
	Put(ctx context.Context, session domain.FISession) error
	Get(ctx context.Context, txnID string) (*domain.FISession, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.FISession, error)
}
