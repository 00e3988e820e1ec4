package models

import "time"

// Comment is a public comment on an announcement or an event. Exactly one of
// AnnouncementID/EventID is set. Append-only, unrelated to submission review.
type Comment struct {
	CommentID      int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	Content        string    `gorm:"column:content" json:"content"`
	UserID         int       `gorm:"column:user_id" json:"user_id"`
	AnnouncementID *int      `gorm:"column:announcement_id;index" json:"announcement_id,omitempty"`
	EventID        *int      `gorm:"column:event_id;index" json:"event_id,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
