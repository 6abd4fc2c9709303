package models

import "time"

// Follow is a directed edge in the social graph. The composite unique index
// forbids duplicate edges; self-follows are rejected before insert.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"index;uniqueIndex:uniq_follow_pair;not null" json:"follower_id"`
	FollowedID uint      `gorm:"index;uniqueIndex:uniq_follow_pair;not null" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
