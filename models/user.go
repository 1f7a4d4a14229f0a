package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdmin     = "admin"
	RoleOperatore = "operatore"
	RoleReadOnly  = "solo_lettura"
)

// User is an operator account. Deletes are hard deletes so a removed
// account's username can be reassigned.
type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username    string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	DisplayName *string    `gorm:"size:150" json:"display_name,omitempty"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"not null;default:operatore" json:"role"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
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

// Label returns the name shown to other operators: display name when set,
// otherwise the username.
func (u *User) Label() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

// CanWrite reports whether the role is allowed to mutate records
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleOperatore
}

// IsValidRole checks if the role is valid
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperatore || role == RoleReadOnly
}
