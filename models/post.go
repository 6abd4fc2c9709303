package models

import "time"

// Post represents a user-authored article with draft/published/archived states.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Category   string    `gorm:"size:50" json:"category"`
	IsDraft    bool      `gorm:"not null;default:false" json:"is_draft"`
	IsArchived bool      `gorm:"not null;default:false" json:"is_archived"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Tags     []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes    []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Views    []PostView `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Preview returns the post body truncated for listing payloads.
// Direct single-post retrieval returns the full body instead.
func (p *Post) Preview() string {
	const max = 200
	r := []rune(p.Content)
	if len(r) > max {
		return string(r[:max]) + "..."
	}
	return p.Content
}

// TagNames flattens the tag relation for serialization.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
