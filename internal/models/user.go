package models

import "time"

// Capability levels, ordered. super_admin is the only role allowed to manage
// other identities.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// UserModel represents a dashboard identity.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"        gorm:"not null"`
	Email         string     `json:"email"`
	Role          string     `json:"role"     gorm:"default:user;index"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// IsAdmin reports whether the role carries the admin capability.
func (u *UserModel) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// UserSession tracks issued JWT sessions so they can be revoked.
type UserSession struct {
	Base
	UserID     string     `json:"-"           gorm:"index;not null"`
	SessionID  string     `json:"session_id"  gorm:"uniqueIndex;not null"`
	UserAgent  string     `json:"user_agent"`
	IP         string     `json:"ip"`
	LastSeenAt *time.Time `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"-"`
}

func (UserSession) TableName() string { return "user_sessions" }
