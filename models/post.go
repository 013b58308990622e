package models

import "time"

// MaxPostTextLen bounds the length of post and comment bodies.
const MaxPostTextLen = 400

// Post is a publication by a single author, optionally filed into a group
// and optionally carrying an image attachment reference.
//
// PubDate is set once on creation and never changes on edits. Deleting the
// author cascades to the post; deleting the group only clears GroupID.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:400;not null" json:"text"`
	PubDate   time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"group,omitempty"`
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"comments,omitempty"`
}
