package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/novascore/credit-engine/internal/domain"
)

func toModel(a domain.ConsentArtefact) (consentLogModel, error) {
	fiTypes, err := json.Marshal(a.FITypes)
	if err != nil {
		return consentLogModel{}, fmt.Errorf("marshal fi_types: %w", err)
	}
	dataRange, err := json.Marshal(a.DataRange)
	if err != nil {
		return consentLogModel{}, fmt.Errorf("marshal data_range: %w", err)
	}
	dataLife, err := json.Marshal(a.DataLife)
	if err != nil {
		return consentLogModel{}, fmt.Errorf("marshal data_life: %w", err)
	}
	purpose, err := json.Marshal(a.Purpose)
	if err != nil {
		return consentLogModel{}, fmt.Errorf("marshal purpose: %w", err)
	}
	frequency, err := json.Marshal(a.Frequency)
	if err != nil {
		return consentLogModel{}, fmt.Errorf("marshal frequency: %w", err)
	}
	return consentLogModel{
		ConsentID:       a.ConsentID,
		UserReferenceID: a.UserReferenceID,
		Status:          string(a.Status),
		FITypes:         fiTypes,
		DataRange:       dataRange,
		DataLife:        dataLife,
		Purpose:         purpose,
		Frequency:       frequency,
		ConsentArtefact: a.ConsentArtefact,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		RevokedAt:       a.RevokedAt,
	}, nil
}

func toDomainConsent(m consentLogModel) (domain.ConsentArtefact, error) {
	a := domain.ConsentArtefact{
		ConsentID:       m.ConsentID,
		UserReferenceID: m.UserReferenceID,
		Status:          domain.ConsentStatus(m.Status),
		ConsentArtefact: m.ConsentArtefact,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		RevokedAt:       m.RevokedAt,
	}
	if err := json.Unmarshal(m.FITypes, &a.FITypes); err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("unmarshal fi_types: %w", err)
	}
	if err := json.Unmarshal(m.DataRange, &a.DataRange); err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("unmarshal data_range: %w", err)
	}
	if err := json.Unmarshal(m.DataLife, &a.DataLife); err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("unmarshal data_life: %w", err)
	}
	if err := json.Unmarshal(m.Purpose, &a.Purpose); err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("unmarshal purpose: %w", err)
	}
	if err := json.Unmarshal(m.Frequency, &a.Frequency); err != nil {
		return domain.ConsentArtefact{}, fmt.Errorf("unmarshal frequency: %w", err)
	}
	return a, nil
}
