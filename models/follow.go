package models

import "time"

// Follow is a directed edge: User receives Author's posts in their feed.
// The (user, author) pair is unique; a duplicate insert fails on the index.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_follow_pair;not null" json:"user_id"`
	AuthorID  uint      `gorm:"uniqueIndex:idx_follow_pair;not null" json:"author_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
