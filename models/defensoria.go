package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Defensoria represents a public defender office/branch. It owns the
// attorneys, groups, case types and cases routed within it.
type Defensoria struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Relationships
	Users []User `gorm:"foreignKey:DefensoriaID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *Defensoria) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Defensoria model
func (Defensoria) TableName() string {
	return "defensorias"
}
