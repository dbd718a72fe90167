package models

import (
	"time"
)

// RoleType is the user's role in the assessment dashboard
type RoleType string

const (
	// RoleStaff can edit programs, outcomes and mappings
	RoleStaff RoleType = "STAFF"
	// RoleViewer has read-only access to dashboards
	RoleViewer RoleType = "VIEWER"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password_hash"` // hashed, excluded from JSON
	FullName    string     `json:"fullName" db:"full_name"`
	RoleType    RoleType   `json:"roleType" db:"role_type"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}

// UserPreference is a single key/value slot scoped to one user. The dashboard
// uses one slot to remember the last selected program across sessions.
type UserPreference struct {
	UserID int64  `json:"userId" db:"user_id"`
	Key    string `json:"key" db:"key"`
	Value  string `json:"value" db:"value"`
}

// PrefLastProgram is the preference slot holding the last selected program id.
const PrefLastProgram = "plo.last_program_id"
