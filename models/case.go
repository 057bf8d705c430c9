package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case represents an expediente tracked through the
// unassigned -> assigned -> taken lifecycle. Once taken, the assignment
// is locked and reassignment is rejected.
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseNumber   string `gorm:"not null;index:idx_case_defensoria_number,unique" json:"case_number"`
	CaseTypeID   string `gorm:"type:uuid;not null;index" json:"case_type_id"`
	DefensoriaID string `gorm:"type:uuid;not null;index:idx_case_defensoria_number,unique" json:"defensoria_id"`
	Notes        string `gorm:"type:text" json:"notes"`

	// Assignment
	AssignedToID *string    `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`

	// Taken state: set when the assigned attorney confirms ownership
	IsTaken bool       `gorm:"not null;default:false" json:"is_taken"`
	TakenAt *time.Time `json:"taken_at,omitempty"`

	// Relationships
	CaseType   CaseType   `gorm:"foreignKey:CaseTypeID" json:"case_type,omitempty"`
	Defensoria Defensoria `gorm:"foreignKey:DefensoriaID" json:"-"`
	AssignedTo *User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsAssigned checks if the case has an attorney assigned
func (c *Case) IsAssigned() bool {
	return c.AssignedToID != nil && *c.AssignedToID != ""
}

// CanBeReassigned checks whether manual reassignment is still allowed
func (c *Case) CanBeReassigned() bool {
	return !c.IsTaken
}
