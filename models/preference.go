package models

import "time"

// MaxCategoryPreferences caps stored preferences per user.
const MaxCategoryPreferences = 10

// CategoryPreference stores one preferred category for a user, feeding the
// personalized recommendation feed.
type CategoryPreference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:uniq_pref_user_category;not null" json:"user_id"`
	Category  string    `gorm:"size:50;uniqueIndex:uniq_pref_user_category;not null" json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
