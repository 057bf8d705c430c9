package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeCaseAssigned = "CASE_ASSIGNED"
	NotificationTypeSystem       = "SYSTEM"
)

type Notification struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Targeting
	DefensoriaID string  `gorm:"type:uuid;not null;index" json:"defensoria_id"`
	UserID       *string `gorm:"type:uuid;index" json:"user_id,omitempty"` // null = all defensoria users

	// Context
	CaseID *string `gorm:"type:uuid" json:"case_id,omitempty"`

	// Content
	Type    string `gorm:"not null" json:"type"`
	Title   string `gorm:"not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	// Read tracking
	ReadAt *time.Time `json:"read_at,omitempty"`

	// Relationships
	Defensoria Defensoria `gorm:"foreignKey:DefensoriaID" json:"-"`
	User       *User      `gorm:"foreignKey:UserID" json:"-"`
	Case       *Case      `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
