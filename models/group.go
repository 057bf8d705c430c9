package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a named pool of attorneys used to route case assignments.
// Membership is id-based through the group_members join table; whether a
// group is authoritative for a case type is tracked separately in
// CaseTypeGroup.
type Group struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string  `gorm:"not null;index" json:"name"`
	DefensoriaID string  `gorm:"type:uuid;not null;index" json:"defensoria_id"`
	CaseTypeID   *string `gorm:"type:uuid;index" json:"case_type_id,omitempty"` // Principal case type, informational
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Defensoria Defensoria `gorm:"foreignKey:DefensoriaID" json:"-"`
	CaseType   *CaseType  `gorm:"foreignKey:CaseTypeID" json:"case_type,omitempty"`
	Members    []User     `gorm:"many2many:group_members;" json:"members,omitempty"`
}

// BeforeCreate hook to generate UUID
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Group model
func (Group) TableName() string {
	return "groups"
}

// MemberIDs returns the ids of the loaded members
func (g *Group) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.ID)
	}
	return ids
}
