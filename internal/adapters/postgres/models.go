package postgres

import "time"

type consentLogModel struct {
	ConsentID       string     `gorm:"column:consent_id;type:uuid;primaryKey"`
	UserReferenceID string     `gorm:"column:user_reference_id"`
	Status          string     `gorm:"column:status"`
	FITypes         []byte     `gorm:"column:fi_types;type:jsonb"`
	DataRange       []byte     `gorm:"column:data_range;type:jsonb"`
	DataLife        []byte     `gorm:"column:data_life;type:jsonb"`
	Purpose         []byte     `gorm:"column:purpose;type:jsonb"`
	Frequency       []byte     `gorm:"column:frequency;type:jsonb"`
	ConsentArtefact []byte     `gorm:"column:consent_artefact;type:jsonb"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	RevokedAt       *time.Time `gorm:"column:revoked_at"`
}

func (consentLogModel) TableName() string { return "consent_log" }
