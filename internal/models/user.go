package models

import "time"

// User is an account holder. Each user owns exactly one ledger snapshot.
type User struct {
	Base
	Email                  string     `gorm:"uniqueIndex;not null" json:"email"`
	Password               string     `gorm:"not null" json:"-"`
	Name                   string     `gorm:"not null" json:"name"`
	BirthDate              *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	IsActive               bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash       string     `gorm:"size:64" json:"-"`
	PasswordResetTokenHash string     `gorm:"size:64;index" json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	FailedLoginAttempts    int        `gorm:"default:0" json:"-"`
	LockedUntil            *time.Time `json:"-"`
	LastLoginAt            *time.Time `json:"last_login_at,omitempty"`
}
