package postgres

import (
	"reflect"
	"testing"
	"time"

	"github.com/novascore/credit-engine/internal/domain"
)

func sampleArtefact() domain.ConsentArtefact {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.ConsentArtefact{
		ConsentID:       "c-1",
		UserReferenceID: "u-1",
		Status:          domain.ConsentActive,
		FITypes:         []domain.FIType{domain.FIUPI, domain.FIGST},
		DataRange:       domain.DataRange{From: now, To: now.AddDate(1, 0, 0)},
		DataLife:        domain.DataLife{Unit: domain.DataLifeMonth, Value: 6},
		Purpose:         domain.Purpose{Code: "101", Text: "Credit scoring", Category: "Personal Finance"},
		Frequency:       domain.Frequency{Unit: "MONTHLY", Value: 1},
		ConsentArtefact: []byte(`{"canonical":true}`),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestToModel_MarshalsEveryJSONColumn(t *testing.T) {
	model, err := toModel(sampleArtefact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.ConsentID != "c-1" || model.UserReferenceID != "u-1" || model.Status != "ACTIVE" {
		t.Errorf("expected scalar fields to copy through unchanged, got %+v", model)
	}
	if len(model.FITypes) == 0 || len(model.DataRange) == 0 || len(model.DataLife) == 0 {
		t.Errorf("expected the composite fields to be marshalled to JSON, got %+v", model)
	}
}

func TestToDomainConsent_RoundTripsThroughToModel(t *testing.T) {
	original := sampleArtefact()
	model, err := toModel(original)
	if err != nil {
		t.Fatalf("unexpected error converting to model: %v", err)
	}
	back, err := toDomainConsent(model)
	if err != nil {
		t.Fatalf("unexpected error converting back to domain: %v", err)
	}
	if !reflect.DeepEqual(original, back) {
		t.Errorf("expected round trip to preserve the artefact\nwant %+v\ngot  %+v", original, back)
	}
}

func TestToDomainConsent_RejectsMalformedJSONColumn(t *testing.T) {
	model, err := toModel(sampleArtefact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model.FITypes = []byte(`not-json`)
	if _, err := toDomainConsent(model); err == nil {
		t.Fatal("expected an error unmarshalling a malformed fi_types column")
	}
}

func TestToDomainConsent_PreservesRevokedAt(t *testing.T) {
	revokedAt := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	artefact := sampleArtefact()
	artefact.Status = domain.ConsentRevoked
	artefact.RevokedAt = &revokedAt

	model, err := toModel(artefact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := toDomainConsent(model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.RevokedAt == nil || !back.RevokedAt.Equal(revokedAt) {
		t.Errorf("expected revoked_at to round-trip, got %+v", back.RevokedAt)
	}
}
