package model

import (
	"slices"
	"time"
)

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Admin is a panel operator. Password holds a bcrypt hash, never plaintext.
type Admin struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:180;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Roles     []string  `json:"roles" gorm:"serializer:json"`
	Nickname  *string   `json:"nickname,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllRoles returns the stored roles plus the implicit ROLE_USER.
func (a *Admin) AllRoles() []string {
	roles := slices.Clone(a.Roles)
	if !slices.Contains(roles, RoleUser) {
		roles = append(roles, RoleUser)
	}
	return roles
}

// HasRole reports whether the admin carries role, implicit roles included.
func (a *Admin) HasRole(role string) bool {
	return slices.Contains(a.AllRoles(), role)
}
