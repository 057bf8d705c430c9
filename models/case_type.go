package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseType is a category of legal case (tipo de proceso), e.g. Civil,
// Familia, Penal. A case type may be linked to routing groups through
// CaseTypeGroup associations.
type CaseType struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `gorm:"not null;index:idx_case_type_defensoria_name,unique" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	DefensoriaID string `gorm:"type:uuid;not null;index:idx_case_type_defensoria_name,unique" json:"defensoria_id"`

	// Relationships
	Defensoria Defensoria `gorm:"foreignKey:DefensoriaID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (ct *CaseType) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == "" {
		ct.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseType model
func (CaseType) TableName() string {
	return "case_types"
}
