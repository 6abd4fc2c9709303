package models

import "time"

// Like marks a user's like on a post. The composite unique index guarantees at
// most one row per (user, post) pair; concurrent toggle races are rejected at
// commit time rather than duplicated.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:uniq_like_user_post;not null" json:"user_id"`
	PostID    uint      `gorm:"index;uniqueIndex:uniq_like_user_post;not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike marks a user's like on a comment. PostID is a denormalized copy
// of the comment's post for query convenience.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:uniq_comment_like_user_comment;not null" json:"user_id"`
	CommentID uint      `gorm:"index;uniqueIndex:uniq_comment_like_user_comment;not null" json:"comment_id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
