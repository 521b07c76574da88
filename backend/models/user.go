package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email           string `gorm:"unique;not null"`
	PasswordHash    string
	FullName        string
	GoogleID        string `gorm:"index"`
	Picture         string
	TargetBandScore string
	IsActive        bool `gorm:"default:true"`
	LastLogin       *time.Time
}

// DisplayName prefers the full name, falling back to the email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
