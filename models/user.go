package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdministrador = "administrador"
	RoleDefensor      = "defensor"
	RoleMostrador     = "mostrador"
	RoleAbogado       = "abogado"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Password     string  `gorm:"not null" json:"-"`
	Role         string  `gorm:"not null;default:abogado;index:idx_user_defensoria_role" json:"role"`
	DefensoriaID *string `gorm:"type:uuid;index:idx_user_defensoria_role" json:"defensoria_id"` // Nullable - administrador is office-wide

	// Availability. OnLeave is authoritative for assignment exclusion;
	// LeaveEndDate is advisory metadata shown to the defensor.
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	OnLeave      bool       `gorm:"not null;default:false" json:"on_leave"`
	LeaveEndDate *time.Time `json:"leave_end_date,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at"`

	// Relationships
	Defensoria *Defensoria `gorm:"foreignKey:DefensoriaID" json:"defensoria,omitempty"`
	Groups     []Group     `gorm:"many2many:group_members;" json:"groups,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// HasDefensoria checks if the user belongs to a defensoria
func (u *User) HasDefensoria() bool {
	return u.DefensoriaID != nil && *u.DefensoriaID != ""
}

// IsAssignable reports whether the attorney is a valid assignment
// candidate: active and not on leave. LeaveEndDate is deliberately not
// consulted here.
func (u *User) IsAssignable() bool {
	return u.IsActive && !u.OnLeave
}

// BelongsToGroup checks membership against the resolved group set by id
func (u *User) BelongsToGroup(groupID string) bool {
	for _, g := range u.Groups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

// IsValidRole checks if the role is one of the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleAdministrador, RoleDefensor, RoleMostrador, RoleAbogado:
		return true
	}
	return false
}
