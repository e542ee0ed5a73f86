package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/novascore/credit-engine/internal/domain"
)

// ConsentCreate validates and persists a new consent artefact.
func (s *Service) ConsentCreate(ctx context.Context, req ConsentCreateRequest) (domain.ConsentArtefact, error) {
	userReferenceID := strings.TrimSpace(req.UserReferenceID)
	if userReferenceID == "" {
		return domain.ConsentArtefact{}, fmt.Errorf("%w: user_reference_id is required", domain.ErrInvalidInput)
	}

	fiTypes := make([]domain.FIType, 0, len(req.FITypes))
	for _, raw := range req.FITypes {
		t := domain.FIType(strings.ToUpper(strings.TrimSpace(raw)))
		if !domain.AllowedFITypes[t] {
			return domain.ConsentArtefact{}, fmt.Errorf("%w: unsupported fi_type %q", domain.ErrInvalidInput, raw)
		}
		fiTypes = append(fiTypes, t)
	}
	if len(fiTypes) == 0 {
		return domain.ConsentArtefact{}, fmt.Errorf("%w: fi_types must be non-empty", domain.ErrInvalidInput)
	}

	from, err := time.Parse(time.RFC3339, req.DataRangeFrom)
	if err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("%w: data_range_from is not a valid timestamp", domain.ErrInvalidInput)
	}
	to, err := time.Parse(time.RFC3339, req.DataRangeTo)
	if err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("%w: data_range_to is not a valid timestamp", domain.ErrInvalidInput)
	}
	if !from.Before(to) {
		return domain.ConsentArtefact{}, fmt.Errorf("%w: data_range.from must precede data_range.to", domain.ErrInvalidInput)
	}

	unit := domain.DataLifeUnit(strings.ToUpper(strings.TrimSpace(req.DataLifeUnit)))
	switch unit {
	case domain.DataLifeDay, domain.DataLifeMonth, domain.DataLifeYear, domain.DataLifeInf:
	default:
		return domain.ConsentArtefact{}, fmt.Errorf("%w: data_life.unit must be one of DAY, MONTH, YEAR, INF", domain.ErrInvalidInput)
	}
	if req.DataLifeValue < 0 {
		return domain.ConsentArtefact{}, fmt.Errorf("%w: data_life.value must be >= 0", domain.ErrInvalidInput)
	}

	purpose := domain.DefaultPurpose()
	if req.PurposeCode != "" || req.PurposeText != "" {
		purpose = domain.Purpose{Code: req.PurposeCode, Text: req.PurposeText, Category: "Personal Finance"}
	}
	frequency := domain.DefaultFrequency()
	if req.FrequencyUnit != "" {
		frequency = domain.Frequency{Unit: strings.ToUpper(req.FrequencyUnit), Value: req.FrequencyValue}
	}

	now := s.nowFn()
	artefact := domain.ConsentArtefact{
		ConsentID:       uuid.NewString(),
		UserReferenceID: userReferenceID,
		Status:          domain.ConsentActive,
		FITypes:         fiTypes,
		DataRange:       domain.DataRange{From: from, To: to},
		DataLife:        domain.DataLife{Unit: unit, Value: req.DataLifeValue},
		Purpose:         purpose,
		Frequency:       frequency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	canonical, err := json.Marshal(artefact)
	if err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("canonicalise consent artefact: %w", err)
	}
	artefact.ConsentArtefact = canonical

	created, err := s.consents.Create(ctx, artefact)
	if err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("persist consent: %w", err)
	}
	return created, nil
}

// ConsentGet fetches a single consent artefact by id.
func (s *Service) ConsentGet(ctx context.Context, consentID string) (domain.ConsentArtefact, error) {
	if err := validateConsentUUID(consentID); err != nil {
		return domain.ConsentArtefact{}, err
	}
	return s.consents.Get(ctx, consentID)
}

// ConsentListByUser lists every consent artefact belonging to a user reference id.
func (s *Service) ConsentListByUser(ctx context.Context, userReferenceID string) ([]domain.ConsentArtefact, error) {
	if strings.TrimSpace(userReferenceID) == "" {
		return nil, fmt.Errorf("%w: user_reference_id is required", domain.ErrInvalidInput)
	}
	return s.consents.ListByUser(ctx, userReferenceID)
}

// ConsentRevoke transitions ACTIVE -> REVOKED; any other current status is a conflict.
func (s *Service) ConsentRevoke(ctx context.Context, consentID string) (domain.ConsentArtefact, error) {
	if err := validateConsentUUID(consentID); err != nil {
		return domain.ConsentArtefact{}, err
	}
	return s.consents.Revoke(ctx, consentID, s.nowFn())
}

func validateConsentUUID(consentID string) error {
	parsed, err := uuid.Parse(consentID)
	if err != nil || parsed.Version() != 4 {
		return fmt.Errorf("%w: consent_id must be a valid uuidv4", domain.ErrInvalidInput)
	}
	return nil
}
