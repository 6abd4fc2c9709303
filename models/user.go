package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Posts    []Post    `json:"-"`
	Comments []Comment `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// UserSummary is the lightweight user shape embedded in listings.
type UserSummary struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	JoinedDate time.Time `json:"joined_date"`
}

// Summarize returns the listing shape for a user.
func (u *User) Summarize() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, JoinedDate: u.CreatedAt}
}
