package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseTypeGroup links a case type to a routing group within a defensoria.
// Invariant: at most one association per case type has IsActive = true.
// Activation is done through services.ActivateGroupForCaseType, which
// flips the flags inside a single transaction.
type CaseTypeGroup struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseTypeID   string `gorm:"type:uuid;not null;uniqueIndex:idx_case_type_group" json:"case_type_id"`
	GroupID      string `gorm:"type:uuid;not null;uniqueIndex:idx_case_type_group" json:"group_id"`
	DefensoriaID string `gorm:"type:uuid;not null;index" json:"defensoria_id"`
	IsActive     bool   `gorm:"not null;default:false" json:"is_active"`

	// Relationships
	CaseType CaseType `gorm:"foreignKey:CaseTypeID" json:"-"`
	Group    Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *CaseTypeGroup) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CaseTypeGroup model
func (CaseTypeGroup) TableName() string {
	return "case_type_groups"
}
