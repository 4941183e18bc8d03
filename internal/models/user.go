package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleParent     UserRole = "parent"
	RoleTeacher    UserRole = "teacher"
	RolePrincipal  UserRole = "principal"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "superadmin"
)

// AllRoles lists every role in display order.
var AllRoles = []UserRole{RoleStudent, RoleParent, RoleTeacher, RolePrincipal, RoleAdmin, RoleSuperAdmin}

// ParseUserRole maps a stored role string onto the closed role set.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleParent:
		return RoleParent, true
	case RoleTeacher:
		return RoleTeacher, true
	case RolePrincipal:
		return RolePrincipal, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	default:
		return "", false
	}
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID        string   `json:"id" gorm:"primaryKey;type:uuid"`
	TenantID  string   `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role      UserRole `json:"role" gorm:"type:user_role;not null"`
	FirstName string   `json:"first_name" gorm:"not null;size:100"`
	LastName  string   `json:"last_name" gorm:"not null;size:100"`

	// Profile info
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"size:500"`

	// Credentials
	PasswordHash string `json:"-" gorm:"size:255"`

	// Status
	Status UserStatus `json:"status" gorm:"size:20;not null;default:active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the part of the user record the dashboard routes on.
type Profile struct {
	Role      UserRole `json:"role"`
	TenantID  string   `json:"tenant_id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
}

func (u *User) Profile() Profile {
	return Profile{
		Role:      u.Role,
		TenantID:  u.TenantID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initial is the avatar letter shown in the navigation bar.
func (u *User) Initial() string {
	for _, r := range u.FirstName {
		return strings.ToUpper(string(r))
	}
	return "U"
}
