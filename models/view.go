package models

import "time"

// ViewCooldown is the deduplication interval for view recording per
// (user, post) pair. Anonymous views carry no cooldown key and are always
// recorded.
const ViewCooldown = time.Hour

// PostView is an event-log row for a single post view. UserID is nil for
// anonymous viewers.
type PostView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
