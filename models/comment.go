package models

import "time"

// Comment is a reply to a post. It always belongs to exactly one post and
// is removed together with it.
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"index;not null" json:"post_id"`
	AuthorID uint      `gorm:"index;not null" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"size:400;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime" json:"pub_date"`
}
