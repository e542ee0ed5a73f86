package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/novascore/credit-engine/internal/domain"
)

// ConsentRepository is the durable ports.ConsentRepository implementation
// backing the consent_log table.
type ConsentRepository struct {
	db *gorm.DB
}

// NewConsentRepository wraps an established GORM connection.
func NewConsentRepository(db *gorm.DB) *ConsentRepository {
	return &ConsentRepository{db: db}
}

func (r *ConsentRepository) Create(ctx context.Context, artefact domain.ConsentArtefact) (domain.ConsentArtefact, error) {
	rec, err := toModel(artefact)
	if err != nil {
		return domain.ConsentArtefact{}, err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.ConsentArtefact{}, err
	}
	return artefact, nil
}

func (r *ConsentRepository) Get(ctx context.Context, consentID string) (domain.ConsentArtefact, error) {
	var rec consentLogModel
	if err := r.db.WithContext(ctx).Where("consent_id = ?", consentID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ConsentArtefact{}, domain.ErrNotFound
		}
		return domain.ConsentArtefact{}, err
	}
	return toDomainConsent(rec)
}

func (r *ConsentRepository) ListByUser(ctx context.Context, userReferenceID string) ([]domain.ConsentArtefact, error) {
	var rows []consentLogModel
	if err := r.db.WithContext(ctx).
		Where("user_reference_id = ?", userReferenceID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ConsentArtefact, 0, len(rows))
	for _, row := range rows {
		a, err := toDomainConsent(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *ConsentRepository) Revoke(ctx context.Context, consentID string, revokedAt time.Time) (domain.ConsentArtefact, error) {
	res := r.db.WithContext(ctx).
		Model(&consentLogModel{}).
		Where("consent_id = ?", consentID).
		Where("status = ?", string(domain.ConsentActive)).
		Updates(map[string]any{
			"status":     string(domain.ConsentRevoked),
			"revoked_at": revokedAt,
			"updated_at": revokedAt,
		})
	if res.Error != nil {
		return domain.ConsentArtefact{}, res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&consentLogModel{}).Where("consent_id = ?", consentID).Count(&exists).Error; err != nil {
			return domain.ConsentArtefact{}, err
		}
		if exists == 0 {
			return domain.ConsentArtefact{}, domain.ErrNotFound
		}
		return domain.ConsentArtefact{}, domain.ErrConflict
	}
	return r.Get(ctx, consentID)
}
