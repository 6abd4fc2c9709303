package models

// Tag is a shared vocabulary entry attached to posts. Tags are created lazily
// on first use and never deleted when posts are edited or removed.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}
