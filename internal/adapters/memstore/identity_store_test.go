package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

func TestIdentityStore_LocksAfterMaxFailedAttempts(t *testing.T) {
	store := NewIdentityStore()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 2; i++ {
		locked, left, err := store.IncrementFailed(ctx, "hash-1", now, 3, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if locked {
			t.Fatalf("expected no lock before reaching max attempts, iteration %d", i)
		}
		if left != 3-(i+1) {
			t.Errorf("expected %d attempts left, got %d", 3-(i+1), left)
		}
	}

	locked, left, err := store.IncrementFailed(ctx, "hash-1", now, 3, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !locked || left != 0 {
		t.Fatalf("expected lock on 3rd failure with 0 attempts left, got locked=%v left=%d", locked, left)
	}

	isLocked, err := store.IsLocked(ctx, "hash-1")
	if err != nil || !isLocked {
		t.Fatalf("expected IsLocked to report true, got %v err=%v", isLocked, err)
	}
}

func TestIdentityStore_LockExpiresAfterLockoutDuration(t *testing.T) {
	store := NewIdentityStore()
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)

	_, _, err := store.IncrementFailed(ctx, "hash-2", past, 1, time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locked, err := store.IsLocked(ctx, "hash-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locked {
		t.Error("expected the lock to have already expired")
	}
}

func TestIdentityStore_ResetClearsFailureState(t *testing.T) {
	store := NewIdentityStore()
	ctx := context.Background()
	now := time.Now()

	if _, _, err := store.IncrementFailed(ctx, "hash-3", now, 5, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Reset(ctx, "hash-3"); err != nil {
		t.Fatalf("unexpected error resetting: %v", err)
	}
	locked, left, err := store.IncrementFailed(ctx, "hash-3", now, 5, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locked || left != 4 {
		t.Errorf("expected the failure counter to have restarted from zero, got locked=%v left=%d", locked, left)
	}
}

func TestIdentityStore_SessionPutGetClear(t *testing.T) {
	store := NewIdentityStore()
	ctx := context.Background()
	session := domain.OTPSession{TxnID: "txn-1"}

	if err := store.PutSession(ctx, "hash-4", session); err != nil {
		t.Fatalf("unexpected error putting session: %v", err)
	}
	got, err := store.GetSession(ctx, "hash-4")
	if err != nil {
		t.Fatalf("unexpected error getting session: %v", err)
	}
	if got == nil || got.TxnID != "txn-1" {
		t.Fatalf("expected to retrieve the stored session, got %+v", got)
	}

	if err := store.ClearSession(ctx, "hash-4"); err != nil {
		t.Fatalf("unexpected error clearing session: %v", err)
	}
	got, err = store.GetSession(ctx, "hash-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected session to be cleared, got %+v", got)
	}
}

func TestIdentityStore_GetSessionOnUnknownKeyReturnsNil(t *testing.T) {
	store := NewIdentityStore()
	got, err := store.GetSession(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session for unknown key, got %+v", got)
	}
}
