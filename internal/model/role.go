package model

import "time"

const (
	// RoleAdmin grants role management and unrestricted post moderation.
	RoleAdmin = "admin"
	// RoleUser is assigned to every account on registration.
	RoleUser = "user"
)

// DefaultRoles are ensured to exist at startup.
var DefaultRoles = []string{RoleAdmin, RoleUser}

// Role is a named permission group.
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users []User `json:"-" gorm:"many2many:user_roles;"`
}
