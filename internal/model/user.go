package model

import "time"

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name         string    `json:"name" gorm:"size:100;not null"`
	Age          int       `json:"age" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Roles []Role `json:"roles" gorm:"many2many:user_roles;"`
	Posts []Post `json:"-" gorm:"foreignKey:OwnerID"`
}

// RoleNames returns the names of the roles held by the user.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Profile is the external projection of a user.
type Profile struct {
	ID    uint     `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Roles []string `json:"roles"`
}

// ToProfile projects the user without credential material.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Age:   u.Age,
		Roles: u.RoleNames(),
	}
}
