package application

import (
	"context"
	"testing"

	"github.com/novascore/credit-engine/internal/adapters/memstore"
	"github.com/novascore/credit-engine/internal/domain"
)

func newTestService() *Service {
	return NewService(Dependencies{
		Consents:   memstore.NewConsentStore(),
		FISessions: memstore.NewFISessionStore(),
		Identity:   memstore.NewIdentityStore(),
	})
}

func validConsentRequest() ConsentCreateRequest {
	return ConsentCreateRequest{
		UserReferenceID: "user-1",
		FITypes:         []string{"upi", "gst"},
		DataRangeFrom:   "2026-01-01T00:00:00Z",
		DataRangeTo:     "2026-06-01T00:00:00Z",
		DataLifeUnit:    "MONTH",
		DataLifeValue:   6,
	}
}

func TestConsentCreate_PersistsWithDefaultsAndActiveStatus(t *testing.T) {
	svc := newTestService()
	artefact, err := svc.ConsentCreate(context.Background(), validConsentRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artefact.Status != domain.ConsentActive {
		t.Errorf("expected ACTIVE status, got %s", artefact.Status)
	}
	if artefact.Purpose.Code != "101" {
		t.Errorf("expected default purpose code 101, got %s", artefact.Purpose.Code)
	}
	if artefact.Frequency.Unit != "MONTH" || artefact.Frequency.Value != 1 {
		t.Errorf("expected default monthly frequency, got %+v", artefact.Frequency)
	}
	if len(artefact.FITypes) != 2 {
		t.Errorf("expected 2 fi_types, got %d", len(artefact.FITypes))
	}
	if len(artefact.ConsentArtefact) == 0 {
		t.Error("expected a canonicalised consent artefact blob")
	}
}

func TestConsentCreate_RejectsEmptyUserReference(t *testing.T) {
	svc := newTestService()
	req := validConsentRequest()
	req.UserReferenceID = "  "
	if _, err := svc.ConsentCreate(context.Background(), req); err == nil {
		t.Fatal("expected an error for a blank user_reference_id")
	}
}

func TestConsentCreate_RejectsUnsupportedFIType(t *testing.T) {
	svc := newTestService()
	req := validConsentRequest()
	req.FITypes = []string{"crypto"}
	if _, err := svc.ConsentCreate(context.Background(), req); err == nil {
		t.Fatal("expected an error for an unsupported fi_type")
	}
}

func TestConsentCreate_RejectsInvertedDataRange(t *testing.T) {
	svc := newTestService()
	req := validConsentRequest()
	req.DataRangeFrom, req.DataRangeTo = req.DataRangeTo, req.DataRangeFrom
	if _, err := svc.ConsentCreate(context.Background(), req); err == nil {
		t.Fatal("expected an error when data_range.from is after data_range.to")
	}
}

func TestConsentCreate_RejectsInvalidDataLifeUnit(t *testing.T) {
	svc := newTestService()
	req := validConsentRequest()
	req.DataLifeUnit = "DECADE"
	if _, err := svc.ConsentCreate(context.Background(), req); err == nil {
		t.Fatal("expected an error for an invalid data_life unit")
	}
}

func TestConsentGet_RejectsNonUUID(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ConsentGet(context.Background(), "not-a-uuid"); err == nil {
		t.Fatal("expected an error for a non-uuid consent id")
	}
}

func TestConsentRevoke_TransitionsActiveToRevoked(t *testing.T) {
	svc := newTestService()
	created, err := svc.ConsentCreate(context.Background(), validConsentRequest())
	if err != nil {
		t.Fatalf("unexpected error creating: %v", err)
	}
	revoked, err := svc.ConsentRevoke(context.Background(), created.ConsentID)
	if err != nil {
		t.Fatalf("unexpected error revoking: %v", err)
	}
	if revoked.Status != domain.ConsentRevoked {
		t.Errorf("expected REVOKED status, got %s", revoked.Status)
	}
}

func TestConsentRevoke_SecondRevokeIsConflict(t *testing.T) {
	svc := newTestService()
	created, _ := svc.ConsentCreate(context.Background(), validConsentRequest())
	if _, err := svc.ConsentRevoke(context.Background(), created.ConsentID); err != nil {
		t.Fatalf("unexpected error on first revoke: %v", err)
	}
	if _, err := svc.ConsentRevoke(context.Background(), created.ConsentID); err != domain.ErrConflict {
		t.Errorf("expected ErrConflict on second revoke, got %v", err)
	}
}

func TestConsentListByUser_ReturnsOnlyMatchingUser(t *testing.T) {
	svc := newTestService()
	svc.ConsentCreate(context.Background(), validConsentRequest())
	other := validConsentRequest()
	other.UserReferenceID = "user-2"
	svc.ConsentCreate(context.Background(), other)

	list, err := svc.ConsentListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 consent for user-1, got %d", len(list))
	}
}
